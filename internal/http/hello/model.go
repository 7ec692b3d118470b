package hello

// Greeting is the only value the endpoint ever returns.
const Greeting = "hello"

// Data models the response payload: exactly {"hello":"hello"}.
type Data struct {
	Hello string `json:"hello" doc:"Fixed greeting" example:"hello"`
}

// Output wraps Data as the huma response body.
type Output struct {
	Body Data
}
