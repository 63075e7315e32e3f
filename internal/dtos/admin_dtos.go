package dtos

type TokenCleanupResponse struct {
	Deleted int64 `json:"deleted"`
}
