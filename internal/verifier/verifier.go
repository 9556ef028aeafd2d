// Package verifier checks whether a user has joined every configured channel.
//
// Each check fans out one getChatMember call per channel and fans the answers
// back in by channel index. A call that fails or exceeds its deadline counts
// as "not subscribed"; a check as a whole never fails.
package verifier

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/sync/errgroup"

	"github.com/edgard/gatebot/internal/config"
	"github.com/edgard/gatebot/internal/metrics"
)

// MembershipOracle reports a user's status in a chat. *bot.Bot implements it.
type MembershipOracle interface {
	GetChatMember(ctx context.Context, params *bot.GetChatMemberParams) (*models.ChatMember, error)
}

// Result holds one entry per configured channel, in configuration order.
type Result []bool

// AllJoined reports whether every channel is joined.
func (r Result) AllJoined() bool {
	for _, joined := range r {
		if !joined {
			return false
		}
	}
	return true
}

// JoinedCount returns the number of joined channels.
func (r Result) JoinedCount() int {
	n := 0
	for _, joined := range r {
		if joined {
			n++
		}
	}
	return n
}

// Membership is the detailed outcome for one channel.
type Membership struct {
	Channel    config.Channel
	Status     models.ChatMemberType // empty when Err is set
	Subscribed bool
	Err        error
}

// Verifier runs membership checks against a fixed channel list.
type Verifier struct {
	oracle   MembershipOracle
	channels []config.Channel
	timeout  time.Duration
	logger   *slog.Logger
}

// New creates a Verifier. timeout bounds every single getChatMember call;
// zero disables the per-call deadline.
func New(oracle MembershipOracle, channels []config.Channel, timeout time.Duration, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Verifier{
		oracle:   oracle,
		channels: append([]config.Channel(nil), channels...),
		timeout:  timeout,
		logger:   logger.With("component", "verifier"),
	}
}

// Channels returns a copy of the configured channels.
func (v *Verifier) Channels() []config.Channel {
	return append([]config.Channel(nil), v.channels...)
}

// CheckAll returns the membership vector for userID.
func (v *Verifier) CheckAll(ctx context.Context, userID int64) Result {
	details := v.CheckDetailed(ctx, userID)
	results := make(Result, len(details))
	for i, d := range details {
		results[i] = d.Subscribed
	}
	return results
}

// CheckDetailed queries every channel concurrently and returns the outcomes
// in channel order. It returns only after every query has settled.
func (v *Verifier) CheckDetailed(ctx context.Context, userID int64) []Membership {
	start := time.Now()
	out := make([]Membership, len(v.channels))

	var g errgroup.Group
	for i, ch := range v.channels {
		g.Go(func() error {
			out[i] = v.query(ctx, ch, userID)
			return nil
		})
	}
	_ = g.Wait() // queries never return errors; failures are folded into out

	allJoined := true
	for _, m := range out {
		allJoined = allJoined && m.Subscribed
	}
	metrics.ObserveCheck(allJoined, time.Since(start))
	v.logger.DebugContext(ctx, "Membership check finished",
		"user_id", userID,
		"channels", len(out),
		"all_joined", allJoined,
		"duration", time.Since(start))

	return out
}

func (v *Verifier) query(ctx context.Context, ch config.Channel, userID int64) Membership {
	qctx := ctx
	if v.timeout > 0 {
		var cancel context.CancelFunc
		qctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	member, err := v.oracle.GetChatMember(qctx, &bot.GetChatMemberParams{ChatID: ch.ID, UserID: userID})
	if err == nil && member == nil {
		err = errors.New("empty chat member response")
	}
	if err != nil {
		reason := "error"
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(qctx.Err(), context.DeadlineExceeded) {
			reason = "timeout"
		}
		metrics.IncChannelQueryFailure(ch.ID, reason)
		v.logger.ErrorContext(ctx, "getChatMember failed, treating as not subscribed",
			"channel_id", ch.ID, "user_id", userID, "reason", reason, "error", err)
		return Membership{Channel: ch, Err: err}
	}

	return Membership{
		Channel:    ch,
		Status:     member.Type,
		Subscribed: IsSubscribedStatus(member.Type),
	}
}

// IsSubscribedStatus reports whether status counts as joined: owner,
// administrator or plain member. Restricted, left, kicked and unknown
// statuses do not.
func IsSubscribedStatus(status models.ChatMemberType) bool {
	switch status {
	case models.ChatMemberTypeOwner, models.ChatMemberTypeAdministrator, models.ChatMemberTypeMember:
		return true
	default:
		return false
	}
}

// NotJoined returns the channels whose aligned result is false, in order.
// Channels without a result entry are treated as not joined.
func NotJoined(channels []config.Channel, results Result) []config.Channel {
	out := make([]config.Channel, 0, len(channels))
	for i, ch := range channels {
		if i >= len(results) || !results[i] {
			out = append(out, ch)
		}
	}
	return out
}
