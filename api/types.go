package api

import "time"

// Request types

type CreateRepoRequest struct {
	Name string `json:"name" binding:"required"`
}

type CommitRequest struct {
	Message string `json:"message"`
}

type SyncRequest struct {
	Source string `json:"source" binding:"required"`
}

// Response types

type RepoResponse struct {
	Name        string    `json:"name"`
	Head        string    `json:"head,omitempty"`
	Size        int       `json:"size"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type RepoListResponse struct {
	Repositories []string `json:"repositories"`
	Count        int      `json:"count"`
}

type CommitCreatedResponse struct {
	CommitID string `json:"commit_id"`
}

type CommitResponse struct {
	CommitID string `json:"commit_id"`
	Found    bool   `json:"found"`
}

type HistoryResponse struct {
	Name    string `json:"name"`
	Limit   int    `json:"limit"`
	History string `json:"history"`
}

type DropResponse struct {
	CommitID string `json:"commit_id"`
	Dropped  bool   `json:"dropped"`
}

type SyncResponse struct {
	Target string `json:"target"`
	Source string `json:"source"`
	Head   string `json:"head,omitempty"`
	Size   int    `json:"size"`
}

type HealthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	Repositories int    `json:"repositories"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
