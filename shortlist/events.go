package shortlist

import (
	"encoding/json"
	"fmt"

	"github.com/resonantlabs/shortlist/sse"
)

// EventType enumerates the SSE event vocabulary defined in spec.md §6.
type EventType string

const (
	EventAgentStart   EventType = "agent_start"
	EventAgentThought EventType = "agent_thought"
	EventToolCall     EventType = "tool_call"
	EventToolResult   EventType = "tool_result"
	EventMissionSpec  EventType = "mission_spec"
	EventStageComplete EventType = "stage_complete"
	EventResult       EventType = "result"
	EventDone         EventType = "done"
	EventError        EventType = "error"
)

type agentStartPayload struct {
	Agent   string `json:"agent"`
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}

type agentThoughtPayload struct {
	Agent   string `json:"agent"`
	Message string `json:"message"`
}

type toolPayload struct {
	Agent   string `json:"agent"`
	Tool    string `json:"tool"`
	Message string `json:"message"`
}

type missionSpecPayload struct {
	Agent   string      `json:"agent"`
	Data    MissionSpec `json:"data"`
	Message string      `json:"message"`
}

type stageCompletePayload struct {
	Stage    Stage   `json:"stage"`
	TimingMs float64 `json:"timing_ms"`
	Message  string  `json:"message"`
}

type resultPayload struct {
	Data    ShortlistResponse `json:"data"`
	Message string            `json:"message"`
}

type donePayload struct {
	Message string `json:"message"`
}

type errorPayload struct {
	Message string `json:"message"`
	Stage   Stage  `json:"stage"`
}

// EventSink is the narrow interface a stage handler needs to emit
// progress. It is satisfied by *EventWriter and by a no-op implementation
// used when streaming is disabled (§4.7: "the final response is also
// returned as a single object when streaming is disabled").
type EventSink interface {
	AgentStart(agent string, stage Stage, message string) error
	AgentThought(agent, message string) error
	ToolCall(agent, tool, message string) error
	ToolResult(agent, tool, message string) error
	MissionSpecEvent(agent string, data MissionSpec, message string) error
	StageComplete(stage Stage, timingMs float64, message string) error
	Result(data ShortlistResponse, message string) error
	Done(message string) error
	Error(stage Stage, message string) error
}

// EventWriter adapts the transport-generic sse.Writer to the pipeline's
// typed event vocabulary, so stage handlers never touch raw JSON
// marshaling or event-name strings directly.
type EventWriter struct {
	w *sse.Writer
}

func NewEventWriter(w *sse.Writer) *EventWriter {
	return &EventWriter{w: w}
}

func (e *EventWriter) send(event EventType, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("shortlist: encoding %s event: %w", event, err)
	}
	return e.w.Send(string(event), data)
}

func (e *EventWriter) AgentStart(agent string, stage Stage, message string) error {
	return e.send(EventAgentStart, agentStartPayload{Agent: agent, Stage: stage, Message: message})
}

func (e *EventWriter) AgentThought(agent, message string) error {
	return e.send(EventAgentThought, agentThoughtPayload{Agent: agent, Message: message})
}

func (e *EventWriter) ToolCall(agent, tool, message string) error {
	return e.send(EventToolCall, toolPayload{Agent: agent, Tool: tool, Message: message})
}

func (e *EventWriter) ToolResult(agent, tool, message string) error {
	return e.send(EventToolResult, toolPayload{Agent: agent, Tool: tool, Message: message})
}

func (e *EventWriter) MissionSpecEvent(agent string, data MissionSpec, message string) error {
	return e.send(EventMissionSpec, missionSpecPayload{Agent: agent, Data: data, Message: message})
}

func (e *EventWriter) StageComplete(stage Stage, timingMs float64, message string) error {
	return e.send(EventStageComplete, stageCompletePayload{Stage: stage, TimingMs: timingMs, Message: message})
}

func (e *EventWriter) Result(data ShortlistResponse, message string) error {
	return e.send(EventResult, resultPayload{Data: data, Message: message})
}

func (e *EventWriter) Done(message string) error {
	return e.send(EventDone, donePayload{Message: message})
}

func (e *EventWriter) Error(stage Stage, message string) error {
	return e.send(EventError, errorPayload{Message: message, Stage: stage})
}

// NullEventSink discards every event. Used for the non-streaming
// synchronous entry point (pipeline.RunSync).
type NullEventSink struct{}

func (NullEventSink) AgentStart(string, Stage, string) error         { return nil }
func (NullEventSink) AgentThought(string, string) error              { return nil }
func (NullEventSink) ToolCall(string, string, string) error          { return nil }
func (NullEventSink) ToolResult(string, string, string) error        { return nil }
func (NullEventSink) MissionSpecEvent(string, MissionSpec, string) error { return nil }
func (NullEventSink) StageComplete(Stage, float64, string) error     { return nil }
func (NullEventSink) Result(ShortlistResponse, string) error         { return nil }
func (NullEventSink) Done(string) error                              { return nil }
func (NullEventSink) Error(Stage, string) error                      { return nil }
