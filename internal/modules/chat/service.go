package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sakhihealth/sakhi-backend/internal/clients/openai"
	"github.com/sakhihealth/sakhi-backend/internal/modules/mealplan"
	"github.com/sakhihealth/sakhi-backend/internal/modules/mealplan/prompts"
	"github.com/sakhihealth/sakhi-backend/internal/platform/logger"
)

const guidanceTopK = 5

const fallbackReply = "I could not reach the guidance service just now. " +
	"As a general rule for PCOS, favor low glycemic index whole foods, pair carbohydrates with protein, " +
	"and aim for 25-30 g of fiber daily. Please try again in a moment."

type Input struct {
	UserID  uuid.UUID
	Message string
}

type Reply struct {
	TurnID         uuid.UUID `json:"turnId"`
	Answer         string    `json:"answer"`
	GuidanceChunks int       `json:"guidanceChunks"`
	Degraded       bool      `json:"degraded"`
}

// Service answers free-form health questions with retrieval-grounded LLM
// responses. Like the planner, it always answers: failures degrade to a
// canned reply and are logged, not surfaced.
type Service struct {
	log       *logger.Logger
	ai        openai.Client
	retriever mealplan.Retriever
}

func NewService(log *logger.Logger, ai openai.Client, retriever mealplan.Retriever) (*Service, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if ai == nil {
		return nil, fmt.Errorf("openai client required")
	}
	if retriever == nil {
		return nil, fmt.Errorf("retriever required")
	}
	prompts.RegisterAll()
	return &Service{
		log:       log.With("service", "ChatService"),
		ai:        ai,
		retriever: retriever,
	}, nil
}

func (s *Service) Respond(ctx context.Context, in Input) Reply {
	turnID := uuid.New()
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return Reply{TurnID: turnID, Answer: "Ask me anything about PCOS-friendly nutrition.", Degraded: false}
	}

	guidance := ""
	chunks := 0
	docs, err := s.retriever.Retrieve(ctx, message, guidanceTopK)
	if err != nil {
		s.log.Warn("chat retrieval failed; answering without guidance",
			"error", err.Error(),
			"user_id", in.UserID.String(),
		)
	} else {
		guidance = mealplan.FormatContext(docs)
		chunks = len(docs)
	}

	prompt, err := prompts.Build(prompts.PromptHealthChat, prompts.Input{
		Message:       message,
		GuidanceBlock: guidance,
	})
	if err != nil {
		s.log.Error("chat prompt build failed", "error", err.Error())
		return Reply{TurnID: turnID, Answer: fallbackReply, GuidanceChunks: chunks, Degraded: true}
	}

	answer, err := s.ai.GenerateText(ctx, prompt.System, prompt.User)
	if err != nil {
		s.log.Warn("chat LLM call failed; using canned reply",
			"error", err.Error(),
			"user_id", in.UserID.String(),
		)
		return Reply{TurnID: turnID, Answer: fallbackReply, GuidanceChunks: chunks, Degraded: true}
	}

	return Reply{
		TurnID:         turnID,
		Answer:         strings.TrimSpace(answer),
		GuidanceChunks: chunks,
	}
}
