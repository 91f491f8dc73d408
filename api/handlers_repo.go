package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	minigit "github.com/bellarboulter/MiniGit"
	"github.com/bellarboulter/MiniGit/pool"
)

// createRepo creates a new empty repository
func (s *Server) createRepo(c *gin.Context) {
	var req CreateRepoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	pooled, err := s.repoPool.Create(req.Name)
	if err != nil {
		switch {
		case errors.Is(err, pool.ErrAlreadyExists):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error: fmt.Sprintf("repository %s already exists", req.Name),
				Code:  "REPO_EXISTS",
			})
		case errors.Is(err, pool.ErrPoolFull):
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{
				Error: "maximum number of repositories reached",
				Code:  "MAX_REPOS_REACHED",
			})
		case errors.Is(err, minigit.ErrInvalidArgument):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: err.Error(),
				Code:  "INVALID_ARGUMENT",
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: err.Error(),
				Code:  "REPO_CREATE_FAILED",
			})
		}
		return
	}

	if s.metrics != nil {
		s.metrics.SetRepositoryCount(int64(s.repoPool.Len()))
	}
	s.logger.WithField("repo", req.Name).Info("repository created")

	c.JSON(http.StatusCreated, s.repoResponse(pooled))
}

// listRepos returns the names of all repositories
func (s *Server) listRepos(c *gin.Context) {
	names := s.repoPool.List()
	c.JSON(http.StatusOK, RepoListResponse{
		Repositories: names,
		Count:        len(names),
	})
}

// getRepo returns head, size, and description for one repository
func (s *Server) getRepo(c *gin.Context) {
	pooled, ok := s.lookupRepo(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, s.repoResponse(pooled))
}

// deleteRepo removes a repository from the pool
func (s *Server) deleteRepo(c *gin.Context) {
	name := c.Param("repo_id")
	if err := s.repoPool.Remove(name); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: err.Error(),
			Code:  "REPO_NOT_FOUND",
		})
		return
	}

	if s.metrics != nil {
		s.metrics.SetRepositoryCount(int64(s.repoPool.Len()))
	}
	s.logger.WithField("repo", name).Info("repository deleted")

	c.Status(http.StatusNoContent)
}

// lookupRepo fetches the repository named in the route, writing a 404
// response when it does not exist.
func (s *Server) lookupRepo(c *gin.Context) (*pool.PooledRepository, bool) {
	name := c.Param("repo_id")
	pooled, err := s.repoPool.Get(name)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: err.Error(),
			Code:  "REPO_NOT_FOUND",
		})
		return nil, false
	}
	return pooled, true
}

func (s *Server) repoResponse(pooled *pool.PooledRepository) RepoResponse {
	pooled.Lock()
	defer pooled.Unlock()

	repo := pooled.Repository
	head, _ := repo.Head()
	return RepoResponse{
		Name:        repo.Name(),
		Head:        head,
		Size:        repo.Size(),
		Description: repo.String(),
		CreatedAt:   pooled.CreatedAt,
	}
}
