// Package agents orchestrates hosted collaborator agents: keyword routing,
// sequential pipelines that thread one answer into the next input, and a
// parallel fan-out that gathers every collaborator's answer.
package agents

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"rag-workbench/internal/common/errors"
	"rag-workbench/internal/common/logger"

	"github.com/google/uuid"
)

type Supervisor struct {
	collaborators []Collaborator
	invoker       Invoker
	logger        logger.Logger
}

func NewSupervisor(collaborators []Collaborator, invoker Invoker, log logger.Logger) *Supervisor {
	return &Supervisor{
		collaborators: collaborators,
		invoker:       invoker,
		logger:        log.WithFields(map[string]interface{}{"component": "agents"}),
	}
}

// Route sends the input to the first collaborator whose keywords match and
// returns that single exchange. Collaborators with no keywords act as a
// catch-all, so list them last.
func (s *Supervisor) Route(ctx context.Context, input string) (*Conversation, error) {
	collab := s.match(input)
	if collab == nil {
		return nil, errors.New(errors.ErrCodeNoCollaborator, "no collaborator matches the input", false)
	}

	sessionID := uuid.NewString()
	output, err := s.invoker.Invoke(ctx, collab.AgentID, collab.AliasID, sessionID, input)
	if err != nil {
		return nil, err
	}

	s.logger.Info("routed to collaborator", map[string]interface{}{
		"collaborator": collab.Name,
		"sessionId":    sessionID,
	})
	return &Conversation{
		SessionID: sessionID,
		Turns:     []Turn{{Collaborator: collab.Name, Input: input, Output: output}},
		Final:     output,
	}, nil
}

// RunPipeline invokes every collaborator in order, feeding each one the
// previous output. The shared session id gives the agents conversation
// memory across turns.
func (s *Supervisor) RunPipeline(ctx context.Context, input string) (*Conversation, error) {
	if len(s.collaborators) == 0 {
		return nil, errors.New(errors.ErrCodeNoCollaborator, "no collaborators configured", false)
	}

	sessionID := uuid.NewString()
	conv := &Conversation{SessionID: sessionID}
	current := input

	for _, collab := range s.collaborators {
		output, err := s.invoker.Invoke(ctx, collab.AgentID, collab.AliasID, sessionID, current)
		if err != nil {
			return conv, fmt.Errorf("pipeline stopped at %s: %w", collab.Name, err)
		}
		conv.Turns = append(conv.Turns, Turn{
			Collaborator: collab.Name,
			Input:        current,
			Output:       output,
		})
		current = output
	}

	conv.Final = current
	s.logger.Info("pipeline complete", map[string]interface{}{
		"sessionId": sessionID,
		"turns":     len(conv.Turns),
	})
	return conv, nil
}

// FanOut sends the same input to every collaborator concurrently and
// collects all answers. Each collaborator gets its own session. The first
// error cancels the remaining invocations.
func (s *Supervisor) FanOut(ctx context.Context, input string) (*Conversation, error) {
	if len(s.collaborators) == 0 {
		return nil, errors.New(errors.ErrCodeNoCollaborator, "no collaborators configured", false)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	turns := make([]Turn, len(s.collaborators))

	for i, collab := range s.collaborators {
		wg.Add(1)
		go func(i int, collab Collaborator) {
			defer wg.Done()
			output, err := s.invoker.Invoke(ctx, collab.AgentID, collab.AliasID, uuid.NewString(), input)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("collaborator %s: %w", collab.Name, err)
					cancel()
				}
				return
			}
			turns[i] = Turn{Collaborator: collab.Name, Input: input, Output: output}
		}(i, collab)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	conv := &Conversation{SessionID: uuid.NewString(), Turns: turns}
	var parts []string
	for _, t := range turns {
		parts = append(parts, fmt.Sprintf("[%s] %s", t.Collaborator, t.Output))
	}
	conv.Final = strings.Join(parts, "\n")
	return conv, nil
}

func (s *Supervisor) match(input string) *Collaborator {
	lowered := strings.ToLower(input)
	for i := range s.collaborators {
		c := &s.collaborators[i]
		if len(c.Keywords) == 0 {
			return c
		}
		for _, kw := range c.Keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				return c
			}
		}
	}
	return nil
}
