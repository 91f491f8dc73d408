// Package pool manages the set of named in-memory repositories a server
// exposes, with idle eviction and a shared identifier sequence.
package pool

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	minigit "github.com/bellarboulter/MiniGit"
	"github.com/bellarboulter/MiniGit/pkg/sequence"
)

var (
	// ErrNotFound is returned when no repository with the given name exists.
	ErrNotFound = errors.New("repository not found")
	// ErrAlreadyExists is returned when creating a repository whose name is taken.
	ErrAlreadyExists = errors.New("repository already exists")
	// ErrPoolFull is returned when the pool is at its repository limit.
	ErrPoolFull = errors.New("repository pool full")
	// ErrPoolClosed is returned for operations on a closed pool.
	ErrPoolClosed = errors.New("repository pool closed")
)

// Config defines configuration for the repository pool
type Config struct {
	MaxRepositories int           // Maximum number of repositories in the pool
	MaxIdleTime     time.Duration // How long a repository may stay idle before eviction; 0 disables eviction
	CleanupInterval time.Duration // How often the eviction pass runs
	Sequence        *sequence.Sequence
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() Config {
	return Config{
		MaxRepositories: 100,
		MaxIdleTime:     30 * time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

// PooledRepository wraps a repository with access metadata and the mutex
// that serializes chain mutation. The repository type itself is
// single-threaded; every caller that traverses or mutates the chain must
// hold Lock for the whole operation.
type PooledRepository struct {
	Repository *minigit.Repository
	CreatedAt  time.Time

	mu           sync.Mutex
	lastAccessed time.Time
	accessCount  int64
}

// Lock serializes access to the underlying repository.
func (p *PooledRepository) Lock() { p.mu.Lock() }

// Unlock releases the repository.
func (p *PooledRepository) Unlock() { p.mu.Unlock() }

// AccessCount returns how many times the repository was fetched from the pool.
func (p *PooledRepository) AccessCount() int64 { return p.accessCount }

func (p *PooledRepository) touch() {
	p.lastAccessed = time.Now()
	p.accessCount++
}

// RepositoryPool owns the named repositories of one server process
type RepositoryPool struct {
	mu           sync.RWMutex
	repositories map[string]*PooledRepository
	config       Config
	seq          *sequence.Sequence
	lastCleanup  time.Time
	done         chan struct{}
	closed       bool
}

// Stats provides a snapshot of the pool state
type Stats struct {
	TotalRepositories int       `json:"total_repositories"`
	MaxRepositories   int       `json:"max_repositories"`
	LastCleanup       time.Time `json:"last_cleanup"`
}

// New creates a repository pool and starts its cleanup routine when idle
// eviction is configured.
func New(config Config) *RepositoryPool {
	if config.MaxRepositories == 0 {
		config.MaxRepositories = 100
	}
	if config.CleanupInterval == 0 {
		config.CleanupInterval = 5 * time.Minute
	}
	seq := config.Sequence
	if seq == nil {
		seq = sequence.Default
	}

	pool := &RepositoryPool{
		repositories: make(map[string]*PooledRepository),
		config:       config,
		seq:          seq,
		lastCleanup:  time.Now(),
		done:         make(chan struct{}),
	}

	if config.MaxIdleTime > 0 {
		go pool.cleanupLoop()
	}
	return pool
}

// Create adds a new empty repository with the given name. The name is
// validated by the repository constructor.
func (rp *RepositoryPool) Create(name string) (*PooledRepository, error) {
	rp.mu.Lock()
	defer rp.mu.Unlock()

	if rp.closed {
		return nil, ErrPoolClosed
	}
	if _, exists := rp.repositories[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, name)
	}
	if len(rp.repositories) >= rp.config.MaxRepositories {
		return nil, ErrPoolFull
	}

	repo, err := minigit.NewWithSequence(name, rp.seq)
	if err != nil {
		return nil, err
	}

	pooled := &PooledRepository{
		Repository:   repo,
		CreatedAt:    time.Now(),
		lastAccessed: time.Now(),
	}
	rp.repositories[name] = pooled
	return pooled, nil
}

// Get fetches a repository by name and records the access.
func (rp *RepositoryPool) Get(name string) (*PooledRepository, error) {
	rp.mu.RLock()
	defer rp.mu.RUnlock()

	if rp.closed {
		return nil, ErrPoolClosed
	}
	pooled, exists := rp.repositories[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	pooled.mu.Lock()
	pooled.touch()
	pooled.mu.Unlock()
	return pooled, nil
}

// Remove deletes a repository from the pool. The chain becomes unreachable
// once no caller holds a reference.
func (rp *RepositoryPool) Remove(name string) error {
	rp.mu.Lock()
	defer rp.mu.Unlock()

	if rp.closed {
		return ErrPoolClosed
	}
	if _, exists := rp.repositories[name]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(rp.repositories, name)
	return nil
}

// List returns the names of all pooled repositories, sorted.
func (rp *RepositoryPool) List() []string {
	rp.mu.RLock()
	defer rp.mu.RUnlock()

	names := make([]string, 0, len(rp.repositories))
	for name := range rp.repositories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of pooled repositories.
func (rp *RepositoryPool) Len() int {
	rp.mu.RLock()
	defer rp.mu.RUnlock()
	return len(rp.repositories)
}

// Stats returns a snapshot of the pool state.
func (rp *RepositoryPool) Stats() Stats {
	rp.mu.RLock()
	defer rp.mu.RUnlock()

	return Stats{
		TotalRepositories: len(rp.repositories),
		MaxRepositories:   rp.config.MaxRepositories,
		LastCleanup:       rp.lastCleanup,
	}
}

// Close stops the cleanup routine and rejects further operations.
func (rp *RepositoryPool) Close() {
	rp.mu.Lock()
	defer rp.mu.Unlock()

	if rp.closed {
		return
	}
	rp.closed = true
	close(rp.done)
	rp.repositories = make(map[string]*PooledRepository)
}

func (rp *RepositoryPool) cleanupLoop() {
	ticker := time.NewTicker(rp.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rp.evictIdle()
		case <-rp.done:
			return
		}
	}
}

func (rp *RepositoryPool) evictIdle() {
	rp.mu.Lock()
	defer rp.mu.Unlock()

	if rp.closed {
		return
	}
	now := time.Now()
	for name, pooled := range rp.repositories {
		pooled.mu.Lock()
		idle := now.Sub(pooled.lastAccessed)
		pooled.mu.Unlock()
		if idle > rp.config.MaxIdleTime {
			delete(rp.repositories, name)
		}
	}
	rp.lastCleanup = now
}
