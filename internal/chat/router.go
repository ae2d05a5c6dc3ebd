package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sybersc/cyberbot/internal/markup"
	"github.com/sybersc/cyberbot/internal/store"
)

// Store is the subset of the state store the router consults.
type Store interface {
	AddUser(id int64, username, firstName string) (bool, error)
	IsBanned(id int64) bool
	CanSendImage(id int64) bool
	RecordActivity(id int64, kind store.ActivityKind) error
}

// Generator produces AI replies. Implemented by the gemini client.
type Generator interface {
	GenerateReply(ctx context.Context, turns []Turn) (string, error)
	AnalyzeImage(ctx context.Context, prompt, mimeType string, data []byte) (string, error)
}

// Membership checks channel subscription via the chat platform.
type Membership interface {
	IsChannelMember(ctx context.Context, userID int64) (bool, error)
}

// Texts holds the user-facing strings the pipeline can answer with.
type Texts struct {
	JoinPrompt         string
	Banned             string
	HistoryReset       string
	ResetButton        string
	QuotaExceeded      string
	NetworkError       string
	GeneralError       string
	DefaultImagePrompt string
	ImagePromptSuffix  string
	Signature          string
}

// Outcome identifies which pipeline step produced the result.
type Outcome int

const (
	// OutcomeReply carries a rendered AI answer.
	OutcomeReply Outcome = iota
	// OutcomeJoinPrompt means the subscription gate failed.
	OutcomeJoinPrompt
	// OutcomeBanned means the ban gate refused the user.
	OutcomeBanned
	// OutcomeReset means the conversation window was cleared.
	OutcomeReset
	// OutcomeQuotaExceeded means the daily image quota is spent.
	OutcomeQuotaExceeded
	// OutcomeError means a transport or persistence failure; Text holds
	// the localized fallback message.
	OutcomeError
)

// Result is what the handler delivers back to the chat. Text is ready
// to send (HTML for replies). Answer is the unrendered assistant text,
// to be committed to the window once delivery succeeds.
type Result struct {
	Outcome Outcome
	Text    string
	Answer  string
}

// User identifies the sender of an inbound message.
type User struct {
	ID        int64
	Username  string
	FirstName string
}

// Router runs the private-chat pipeline: gate, contextualize, dispatch,
// render. One Router serves all chats; per-chat ordering comes from its
// Sessions.
type Router struct {
	store      Store
	ai         Generator
	membership Membership
	sessions   *Sessions
	texts      Texts
	timeout    time.Duration
	log        *slog.Logger
}

// NewRouter wires the pipeline. timeout bounds each AI call; zero means
// the 30 second default.
func NewRouter(st Store, ai Generator, membership Membership, sessions *Sessions, texts Texts, timeout time.Duration, logger *slog.Logger) *Router {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		store:      st,
		ai:         ai,
		membership: membership,
		sessions:   sessions,
		texts:      texts,
		timeout:    timeout,
		log:        logger.With("component", "router"),
	}
}

// HandleText runs one private text message through the pipeline.
func (r *Router) HandleText(ctx context.Context, user User, text string) Result {
	if res, ok := r.gate(ctx, user); !ok {
		return res
	}

	if text == r.texts.ResetButton {
		r.sessions.Reset(user.ID)
		return Result{Outcome: OutcomeReset, Text: r.texts.HistoryReset + r.texts.Signature}
	}

	if res, ok := r.recordContact(ctx, user, store.ActivityText); !ok {
		return res
	}

	var answer string
	var genErr error
	r.sessions.Run(user.ID, func(w *Window) {
		w.Append(RoleUser, text)
		payload := w.Last(WindowSize)

		aiCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		answer, genErr = r.ai.GenerateReply(aiCtx, payload)
	})
	if genErr != nil {
		r.log.ErrorContext(ctx, "AI reply generation failed", "user_id", user.ID, "error", genErr)
		return Result{Outcome: OutcomeError, Text: r.texts.NetworkError + r.texts.Signature}
	}

	return Result{
		Outcome: OutcomeReply,
		Text:    markup.Render(answer) + r.texts.Signature,
		Answer:  answer,
	}
}

// HandlePhoto runs one private photo message through the pipeline.
// Photo exchanges do not enter the conversation window.
func (r *Router) HandlePhoto(ctx context.Context, user User, caption, mimeType string, data []byte) Result {
	if res, ok := r.gate(ctx, user); !ok {
		return res
	}

	if !r.store.CanSendImage(user.ID) {
		return Result{Outcome: OutcomeQuotaExceeded, Text: r.texts.QuotaExceeded}
	}

	if res, ok := r.recordContact(ctx, user, store.ActivityImage); !ok {
		return res
	}

	prompt := caption
	if prompt == "" {
		prompt = r.texts.DefaultImagePrompt
	}
	prompt += r.texts.ImagePromptSuffix

	aiCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	answer, err := r.ai.AnalyzeImage(aiCtx, prompt, mimeType, data)
	if err != nil {
		r.log.ErrorContext(ctx, "AI image analysis failed", "user_id", user.ID, "error", err)
		return Result{Outcome: OutcomeError, Text: r.texts.NetworkError + r.texts.Signature}
	}

	return Result{
		Outcome: OutcomeReply,
		Text:    markup.Render(answer) + r.texts.Signature,
		Answer:  answer,
	}
}

// CommitAssistant appends the assistant turn after the reply was
// actually delivered, so a failed send never pollutes the window.
func (r *Router) CommitAssistant(userID int64, answer string) {
	r.sessions.Run(userID, func(w *Window) {
		w.Append(RoleAssistant, answer)
	})
}

// ResetWindow clears the user's conversation window (used by /start).
func (r *Router) ResetWindow(userID int64) {
	r.sessions.Reset(userID)
}

// gate runs the subscription and ban gates shared by both pipelines.
func (r *Router) gate(ctx context.Context, user User) (Result, bool) {
	member, err := r.membership.IsChannelMember(ctx, user.ID)
	if err != nil {
		r.log.WarnContext(ctx, "Subscription check failed", "user_id", user.ID, "error", err)
		member = false
	}
	if !member {
		return Result{Outcome: OutcomeJoinPrompt, Text: r.texts.JoinPrompt}, false
	}

	if r.store.IsBanned(user.ID) {
		return Result{Outcome: OutcomeBanned, Text: r.texts.Banned}, false
	}

	return Result{}, true
}

// recordContact registers the user on first contact and records the
// activity. A persistence failure aborts the pipeline.
func (r *Router) recordContact(ctx context.Context, user User, kind store.ActivityKind) (Result, bool) {
	if _, err := r.store.AddUser(user.ID, user.Username, user.FirstName); err != nil {
		r.log.ErrorContext(ctx, "Failed to register user", "user_id", user.ID, "error", err)
		return Result{Outcome: OutcomeError, Text: r.texts.GeneralError}, false
	}
	if err := r.store.RecordActivity(user.ID, kind); err != nil {
		r.log.ErrorContext(ctx, "Failed to record activity", "user_id", user.ID, "error", err)
		return Result{Outcome: OutcomeError, Text: r.texts.GeneralError}, false
	}
	return Result{}, true
}

// GroupPrompt reconstructs the context for a reply to one of the bot's
// own group messages: prior question, prior answer, then the new reply.
func GroupPrompt(entry ReplyEntry, newText string) string {
	return fmt.Sprintf("السؤال السابق: %s\nالإجابة السابقة: %s\nالرد الجديد: %s",
		entry.Question, entry.Answer, newText)
}
