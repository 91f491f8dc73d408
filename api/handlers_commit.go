package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultHistoryLimit = 10

// createCommit appends a commit to the repository and returns its identifier
func (s *Server) createCommit(c *gin.Context) {
	var req CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	pooled, ok := s.lookupRepo(c)
	if !ok {
		return
	}

	pooled.Lock()
	id, err := pooled.Repository.Commit(req.Message)
	pooled.Unlock()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_ARGUMENT",
		})
		return
	}

	if s.metrics != nil {
		s.metrics.IncCommits()
	}
	s.logger.WithFields(map[string]interface{}{
		"repo":   pooled.Repository.Name(),
		"commit": id,
	}).Info("commit created")

	c.JSON(http.StatusCreated, CommitCreatedResponse{CommitID: id})
}

// getHistory returns the most recent commit descriptions, newest first
func (s *Server) getHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: fmt.Sprintf("invalid limit %q", raw),
				Code:  "INVALID_REQUEST",
			})
			return
		}
		limit = n
	}

	pooled, ok := s.lookupRepo(c)
	if !ok {
		return
	}

	pooled.Lock()
	history, err := pooled.Repository.History(limit)
	pooled.Unlock()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_ARGUMENT",
		})
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{
		Name:    pooled.Repository.Name(),
		Limit:   limit,
		History: history,
	})
}

// getCommit reports whether a commit identifier exists in the chain
func (s *Server) getCommit(c *gin.Context) {
	pooled, ok := s.lookupRepo(c)
	if !ok {
		return
	}
	commitID := c.Param("commit_id")

	pooled.Lock()
	found := pooled.Repository.Contains(commitID)
	pooled.Unlock()

	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: fmt.Sprintf("commit %s not found", commitID),
			Code:  "COMMIT_NOT_FOUND",
		})
		return
	}
	c.JSON(http.StatusOK, CommitResponse{CommitID: commitID, Found: true})
}

// dropCommit splices a commit out of the chain
func (s *Server) dropCommit(c *gin.Context) {
	pooled, ok := s.lookupRepo(c)
	if !ok {
		return
	}
	commitID := c.Param("commit_id")

	pooled.Lock()
	dropped := pooled.Repository.Drop(commitID)
	pooled.Unlock()

	if !dropped {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: fmt.Sprintf("commit %s not found", commitID),
			Code:  "COMMIT_NOT_FOUND",
		})
		return
	}

	if s.metrics != nil {
		s.metrics.IncDrops()
	}
	s.logger.WithFields(map[string]interface{}{
		"repo":   pooled.Repository.Name(),
		"commit": commitID,
	}).Info("commit dropped")

	c.JSON(http.StatusOK, DropResponse{CommitID: commitID, Dropped: true})
}

// syncRepo moves every commit from the source repository into the target
func (s *Server) syncRepo(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	target, ok := s.lookupRepo(c)
	if !ok {
		return
	}
	if req.Source == target.Repository.Name() {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "cannot synchronize a repository with itself",
			Code:  "INVALID_ARGUMENT",
		})
		return
	}

	source, err := s.repoPool.Get(req.Source)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: err.Error(),
			Code:  "REPO_NOT_FOUND",
		})
		return
	}

	// Lock both repositories in name order so concurrent syncs in opposite
	// directions cannot deadlock.
	first, second := target, source
	if source.Repository.Name() < target.Repository.Name() {
		first, second = source, target
	}
	first.Lock()
	second.Lock()
	target.Repository.Synchronize(source.Repository)
	head, _ := target.Repository.Head()
	size := target.Repository.Size()
	second.Unlock()
	first.Unlock()

	if s.metrics != nil {
		s.metrics.IncSyncs()
	}
	s.logger.WithFields(map[string]interface{}{
		"target": target.Repository.Name(),
		"source": source.Repository.Name(),
	}).Info("repositories synchronized")

	c.JSON(http.StatusOK, SyncResponse{
		Target: target.Repository.Name(),
		Source: source.Repository.Name(),
		Head:   head,
		Size:   size,
	})
}
