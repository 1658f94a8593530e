package viewstate

import "github.com/five82/pipedeck/internal/pipelineapi"

// DetailLoadedMsg carries the result of the fetch issued by ShowDetails.
type DetailLoadedMsg struct {
	Seq    uint64
	ID     string
	Detail *pipelineapi.PipelineDetail
	Err    error
}

// WriteCountMsg carries the result of one poll refresh. HasCount is false
// when the response had no write_count.
type WriteCountMsg struct {
	Handle   uint64
	ID       string
	Count    int64
	HasCount bool
	Err      error
}
