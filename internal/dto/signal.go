package dto

// SentimentRequest captures POST /signals/sentiment payload.
type SentimentRequest struct {
	Text string `json:"text" binding:"required,max=5000"`
}

// WarmupRequest captures POST /signals/warmup payload.
type WarmupRequest struct {
	ClassIDs []string `json:"classIds" binding:"required,min=1,max=100,dive,required"`
}

// WarmupResponse lists the queued warm-up jobs.
type WarmupResponse struct {
	JobIDs []string `json:"jobIds"`
}
