package analyzer

import (
	"context"
	"strings"

	"github.com/templui/campus-collector/internal/logger"
	"github.com/templui/campus-collector/internal/model"
)

// Provider sends one prompt and one image to a vision model and returns the
// text of its reply.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt, imageURL string) (string, error)
}

// Analyzer infers the enumerated photo fields for a single image. It keeps no
// per-call state, so one Analyzer serves concurrent requests. It sets no
// deadline of its own; callers bound it through ctx.
type Analyzer struct {
	provider Provider
	prompts  *Prompts
}

func New(provider Provider, prompts *Prompts) *Analyzer {
	return &Analyzer{provider: provider, prompts: prompts}
}

func (a *Analyzer) Analyze(ctx context.Context, image string, lang model.Language) (*model.Analysis, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return nil, &Error{Kind: KindInvalidInput, Err: ErrNoImage}
	}

	log := logger.Component("analyzer").With("provider", a.provider.Name(), "language", lang)

	reply, err := a.provider.Complete(ctx, a.prompts.For(lang), ImageURL(image))
	if err != nil {
		log.Warn("analysis request failed", "error", err)
		return nil, err
	}

	analysis, err := ParseAnalysis(reply)
	if err != nil {
		log.Warn("unreadable analysis reply", "error", err, "reply_bytes", len(reply))
		return nil, err
	}

	log.Debug("photo analyzed", "confidence", int(analysis.Confidence))
	return analysis, nil
}

// ImageURL returns image as a data URI. Bare base64 is assumed to be JPEG.
func ImageURL(image string) string {
	if strings.HasPrefix(image, "data:") {
		return image
	}
	return "data:image/jpeg;base64," + image
}
