// Package gemini drafts campaign e-mails with the Gemini API.
package gemini

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"google.golang.org/genai"

	"github.com/xenking/novexa-store/internal/domain/campaign"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-2.5-flash"

// Config configures the Gemini drafter.
type Config struct {
	APIKey string
	Model  string
	// Brand is the store name the copywriter writes for.
	Brand string
}

// Drafter implements campaign.Drafter on top of the Gemini API.
type Drafter struct {
	client *genai.Client
	model  string
	brand  string
}

var _ campaign.Drafter = (*Drafter)(nil)

// NewDrafter creates a Drafter. It returns (nil, nil) when no API key is
// configured.
func NewDrafter(ctx context.Context, cfg Config) (*Drafter, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create genai client")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	brand := cfg.Brand
	if brand == "" {
		brand = "Novexa"
	}
	return &Drafter{client: client, model: model, brand: brand}, nil
}

// Draft implements campaign.Drafter.
func (d *Drafter) Draft(ctx context.Context, brief string, highlights []campaign.Highlight) (*campaign.Draft, error) {
	resp, err := d.client.Models.GenerateContent(ctx, d.model,
		genai.Text(buildPrompt(d.brand, brief, highlights)),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, errors.Wrap(err, "generate content")
	}
	return ParseDraft(resp.Text())
}

func buildPrompt(brand, brief string, highlights []campaign.Highlight) string {
	var b strings.Builder
	b.WriteString("You are an expert e-commerce copywriter for \"")
	b.WriteString(brand)
	b.WriteString("\".\n\nTASK:\nGenerate a high-converting marketing email based on the context below.\n\nCONTEXT:\n")
	b.WriteString(brief)
	b.WriteString("\n\nPRODUCTS TO HIGHLIGHT:\n")
	b.Write(encodeHighlights(highlights))
	b.WriteString(`

REQUIREMENTS:
1. Subject Line: Catchy, creates urgency or curiosity.
2. Preheader: Short snippet that appears after the subject.
3. Body: Professional HTML email body. Use inline styles for compatibility. Keep it clean and modern.
4. Explanation: One sentence explaining why you chose this angle.

OUTPUT FORMAT (JSON):
{"subject": "String", "preheader": "String", "body": "String (HTML)", "explanation": "String"}
`)
	return b.String()
}

func encodeHighlights(highlights []campaign.Highlight) []byte {
	var e jx.Encoder
	e.Arr(func(e *jx.Encoder) {
		for _, h := range highlights {
			e.Obj(func(e *jx.Encoder) {
				e.Field("name", func(e *jx.Encoder) { e.Str(h.Name) })
				e.Field("price", func(e *jx.Encoder) { e.Num(jx.Num(h.Price.StringFixed(2))) })
				e.Field("mainCategory", func(e *jx.Encoder) { e.Str(h.MainCategory) })
			})
		}
	})
	return e.Bytes()
}

// ParseDraft decodes a model answer into a draft. Markdown code fences and
// prose around the JSON object are tolerated. Unknown fields are ignored.
func ParseDraft(raw string) (*campaign.Draft, error) {
	candidate := extractObject(raw)
	if candidate == "" {
		return nil, errors.New("no JSON object in answer")
	}

	var draft campaign.Draft
	d := jx.DecodeStr(candidate)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var dst *string
		switch key {
		case "subject":
			dst = &draft.Subject
		case "preheader":
			dst = &draft.Preheader
		case "body":
			dst = &draft.Body
		case "explanation":
			dst = &draft.Explanation
		default:
			return d.Skip()
		}
		if d.Next() != jx.String {
			return d.Skip()
		}
		v, err := d.Str()
		if err != nil {
			return errors.Wrapf(err, "decode %q", key)
		}
		*dst = v
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode draft")
	}
	if !draft.Complete() {
		return nil, errors.New("draft is missing subject or body")
	}
	return &draft, nil
}

// extractObject strips code fences and returns the outermost {...} span.
func extractObject(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimPrefix(text, "json")
		text = strings.TrimPrefix(text, "JSON")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
