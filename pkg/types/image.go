package types

// ImageRequest is the uniform image generation request. Only providers that
// expose an images endpoint accept it; the rest reject the call before any
// network traffic happens.
type ImageRequest struct {
	Prompt string `json:"prompt"`
	N      int    `json:"n,omitempty"`
	Size   string `json:"size,omitempty"`
}

// ImageResponse is the uniform image generation response.
type ImageResponse struct {
	Created int64        `json:"created,omitempty"`
	Data    []ImageDatum `json:"data"`
}

// ImageDatum is a single generated image, either a hosted URL or inline
// base64 payload depending on what the vendor returned.
type ImageDatum struct {
	URL     string `json:"url,omitempty"`
	B64JSON string `json:"b64_json,omitempty"`
}
