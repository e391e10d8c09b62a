package pipeline

type Request struct {
	Text string `json:"text"`
	Tid  string `json:"tid"`
}

// Pipeline answers a request with one JSON document keyed by configuration name.
type Pipeline func(request Request) <-chan string
