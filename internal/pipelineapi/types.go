package pipelineapi

import "encoding/json"

// PipelineSummary is one entry of the sidebar list. WriteCount is not part of
// the list payload; LoadSummaries fills it from the per-pipeline endpoint.
type PipelineSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Question   string `json:"question"`
	CreatedAt  string `json:"created_at,omitempty"`
	WriteCount int64  `json:"write_count"`
}

// ListResponse mirrors GET /pipelines.
type ListResponse struct {
	Pipelines []PipelineSummary `json:"pipelines"`
}

// Component is one generated piece of a pipeline together with its DDL.
type Component struct {
	Name string `json:"name"`
	DDL  string `json:"ddl"`
}

// PipelineSpec holds the question a pipeline was generated from and its
// optional components.
type PipelineSpec struct {
	Question            string     `json:"question"`
	RandomStream        *Component `json:"random_stream,omitempty"`
	KafkaExternalStream *Component `json:"kafka_external_stream,omitempty"`
	WriteToKafkaMV      *Component `json:"write_to_kafka_mv,omitempty"`
}

// PipelineDetail mirrors GET /pipelines/{id}.
type PipelineDetail struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	WriteCount int64         `json:"write_count"`
	Pipeline   *PipelineSpec `json:"pipeline"`

	// HasWriteCount is set when a decoded body carried a non-null write_count.
	HasWriteCount bool `json:"-"`
}

// UnmarshalJSON records whether write_count was present.
func (d *PipelineDetail) UnmarshalJSON(data []byte) error {
	type plain PipelineDetail
	aux := struct {
		*plain
		WriteCount *int64 `json:"write_count"`
	}{plain: (*plain)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.HasWriteCount = aux.WriteCount != nil
	if aux.WriteCount != nil {
		d.WriteCount = *aux.WriteCount
	}
	return nil
}

// Question returns the pipeline's question, or "" when the spec is missing.
func (d PipelineDetail) Question() string {
	if d.Pipeline == nil {
		return ""
	}
	return d.Pipeline.Question
}

// CreateRequest is the body of POST /pipelines.
type CreateRequest struct {
	Question string `json:"question"`
}

// CreateResponse mirrors the POST /pipelines reply.
type CreateResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Question string `json:"question"`
	Message  string `json:"message,omitempty"`
}
