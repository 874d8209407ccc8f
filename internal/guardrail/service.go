// internal/guardrail/service.go
package guardrail

import (
	"context"
	"strings"

	"rag-workbench/internal/common/errors"
	"rag-workbench/internal/common/logger"
	"rag-workbench/internal/common/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrock"
	bedrocktypes "github.com/aws/aws-sdk-go-v2/service/bedrock/types"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	runtimetypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/google/uuid"
)

type adminAPI interface {
	CreateGuardrail(ctx context.Context, input *bedrock.CreateGuardrailInput) (*bedrock.CreateGuardrailOutput, error)
	CreateGuardrailVersion(ctx context.Context, input *bedrock.CreateGuardrailVersionInput) (*bedrock.CreateGuardrailVersionOutput, error)
}

type modelAPI interface {
	Converse(ctx context.Context, input *bedrockruntime.ConverseInput) (*bedrockruntime.ConverseOutput, error)
}

type Service struct {
	admin  adminAPI
	model  modelAPI
	logger logger.Logger
}

func NewService(admin adminAPI, model modelAPI, log logger.Logger) *Service {
	return &Service{
		admin:  admin,
		model:  model,
		logger: log.WithFields(map[string]interface{}{"component": "guardrail"}),
	}
}

// Create provisions a guardrail from the spec. The returned Version is the
// working DRAFT; call PublishVersion for a numbered one.
func (s *Service) Create(ctx context.Context, spec Spec) (*Info, error) {
	metrics.PlatformCalls.WithLabelValues("bedrock", "CreateGuardrail").Inc()

	input := &bedrock.CreateGuardrailInput{
		Name:                    aws.String(spec.Name),
		Description:             aws.String(spec.Description),
		BlockedInputMessaging:   aws.String(defaultMessage(spec.BlockedInputMessage)),
		BlockedOutputsMessaging: aws.String(defaultMessage(spec.BlockedOutputMessage)),
		ClientRequestToken:      aws.String(uuid.NewString()),
	}

	if len(spec.DeniedTopics) > 0 {
		topics := make([]bedrocktypes.GuardrailTopicConfig, 0, len(spec.DeniedTopics))
		for _, t := range spec.DeniedTopics {
			topics = append(topics, bedrocktypes.GuardrailTopicConfig{
				Name:       aws.String(t.Name),
				Definition: aws.String(t.Definition),
				Examples:   t.Examples,
				Type:       bedrocktypes.GuardrailTopicTypeDeny,
			})
		}
		input.TopicPolicyConfig = &bedrocktypes.GuardrailTopicPolicyConfig{
			TopicsConfig: topics,
		}
	}

	if len(spec.ContentFilters) > 0 {
		filters := make([]bedrocktypes.GuardrailContentFilterConfig, 0, len(spec.ContentFilters))
		for _, f := range spec.ContentFilters {
			filters = append(filters, bedrocktypes.GuardrailContentFilterConfig{
				Type:           bedrocktypes.GuardrailContentFilterType(strings.ToUpper(f.Category)),
				InputStrength:  bedrocktypes.GuardrailFilterStrength(strings.ToUpper(f.InputStrength)),
				OutputStrength: bedrocktypes.GuardrailFilterStrength(strings.ToUpper(f.OutputStrength)),
			})
		}
		input.ContentPolicyConfig = &bedrocktypes.GuardrailContentPolicyConfig{
			FiltersConfig: filters,
		}
	}

	if len(spec.BlockedWords) > 0 || spec.ProfanityList {
		wordPolicy := &bedrocktypes.GuardrailWordPolicyConfig{}
		for _, w := range spec.BlockedWords {
			wordPolicy.WordsConfig = append(wordPolicy.WordsConfig, bedrocktypes.GuardrailWordConfig{
				Text: aws.String(w),
			})
		}
		if spec.ProfanityList {
			wordPolicy.ManagedWordListsConfig = []bedrocktypes.GuardrailManagedWordsConfig{
				{Type: bedrocktypes.GuardrailManagedWordsTypeProfanity},
			}
		}
		input.WordPolicyConfig = wordPolicy
	}

	out, err := s.admin.CreateGuardrail(ctx, input)
	if err != nil {
		metrics.PlatformCallErrors.WithLabelValues("bedrock", "CreateGuardrail", "error").Inc()
		return nil, errors.FromAWS("create guardrail", err)
	}

	info := &Info{
		ID:      aws.ToString(out.GuardrailId),
		ARN:     aws.ToString(out.GuardrailArn),
		Version: aws.ToString(out.Version),
	}
	s.logger.Info("guardrail created", map[string]interface{}{
		"guardrailId": info.ID,
		"version":     info.Version,
	})
	return info, nil
}

// PublishVersion snapshots the draft into a numbered version for use in
// generation configs.
func (s *Service) PublishVersion(ctx context.Context, guardrailID, description string) (string, error) {
	metrics.PlatformCalls.WithLabelValues("bedrock", "CreateGuardrailVersion").Inc()

	out, err := s.admin.CreateGuardrailVersion(ctx, &bedrock.CreateGuardrailVersionInput{
		GuardrailIdentifier: aws.String(guardrailID),
		Description:         aws.String(description),
	})
	if err != nil {
		metrics.PlatformCallErrors.WithLabelValues("bedrock", "CreateGuardrailVersion", "error").Inc()
		return "", errors.FromAWS("create guardrail version", err)
	}
	return aws.ToString(out.Version), nil
}

// Converse invokes the hosted model endpoint directly with the guardrail
// applied. Intervention is reported on the reply, not as an error, so
// demos can print the configured blocked messaging.
func (s *Service) Converse(ctx context.Context, modelID, guardrailID, guardrailVersion, prompt string) (*ModelReply, error) {
	metrics.PlatformCalls.WithLabelValues("bedrock-runtime", "Converse").Inc()

	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(modelID),
		Messages: []runtimetypes.Message{
			{
				Role: runtimetypes.ConversationRoleUser,
				Content: []runtimetypes.ContentBlock{
					&runtimetypes.ContentBlockMemberText{Value: prompt},
				},
			},
		},
	}
	if guardrailID != "" {
		input.GuardrailConfig = &runtimetypes.GuardrailConfiguration{
			GuardrailIdentifier: aws.String(guardrailID),
			GuardrailVersion:    aws.String(guardrailVersion),
		}
	}

	out, err := s.model.Converse(ctx, input)
	if err != nil {
		metrics.PlatformCallErrors.WithLabelValues("bedrock-runtime", "Converse", "error").Inc()
		return nil, errors.FromAWS("converse", err)
	}

	reply := &ModelReply{
		StopReason: string(out.StopReason),
		Intervened: out.StopReason == runtimetypes.StopReasonGuardrailIntervened,
	}
	if msg, ok := out.Output.(*runtimetypes.ConverseOutputMemberMessage); ok {
		var parts []string
		for _, block := range msg.Value.Content {
			if text, ok := block.(*runtimetypes.ContentBlockMemberText); ok {
				parts = append(parts, text.Value)
			}
		}
		reply.Text = strings.Join(parts, "")
	}
	if out.Usage != nil {
		reply.InputTokens = aws.ToInt32(out.Usage.InputTokens)
		reply.OutputTokens = aws.ToInt32(out.Usage.OutputTokens)
		metrics.TokensConsumed.WithLabelValues(modelID, "input").Add(float64(reply.InputTokens))
		metrics.TokensConsumed.WithLabelValues(modelID, "output").Add(float64(reply.OutputTokens))
	}

	if reply.Intervened {
		s.logger.Warn("guardrail intervened", map[string]interface{}{
			"modelId":     modelID,
			"guardrailId": guardrailID,
		})
	}
	return reply, nil
}

func defaultMessage(msg string) string {
	if msg == "" {
		return "Sorry, I cannot answer that."
	}
	return msg
}
