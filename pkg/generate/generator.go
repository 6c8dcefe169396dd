// Package generate turns a website analysis into per-framework project
// trees, via a generative model for framework variants and via direct
// sanitization for the static variant.
package generate

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"site-cloner/pkg/config"
	"site-cloner/pkg/models"
	"site-cloner/pkg/utils"
)

// handlerFunc produces one framework's generation result.
type handlerFunc func(ctx context.Context, analysis *models.WebsiteAnalysis) (*models.CodeGenerationResult, error)

// Generator dispatches framework tags to their handlers through a lookup
// table built once at construction.
type Generator struct {
	model    TextGenerator
	cfg      config.ModelConfig
	handlers map[models.Framework]handlerFunc
	log      *logrus.Entry
}

// NewGenerator builds the dispatch table: the static variant plus one
// model-backed handler per framework spec.
func NewGenerator(model TextGenerator, cfg config.ModelConfig, logger *logrus.Entry) *Generator {
	g := &Generator{
		model: model,
		cfg:   cfg,
		log:   logger.WithField("component", "generator"),
	}

	g.handlers = map[models.Framework]handlerFunc{
		models.FrameworkHTMLCSSJS: func(_ context.Context, analysis *models.WebsiteAnalysis) (*models.CodeGenerationResult, error) {
			return generateStatic(analysis), nil
		},
	}
	for fw, spec := range frameworkSpecs {
		g.handlers[fw] = g.modelBackedHandler(spec)
	}
	return g
}

// GenerateCode produces the project tree for one framework.
func (g *Generator) GenerateCode(ctx context.Context, analysis *models.WebsiteAnalysis, fw models.Framework) (*models.CodeGenerationResult, error) {
	handler, ok := g.handlers[fw]
	if !ok {
		return nil, fmt.Errorf("%w: %s", utils.ErrUnsupportedFramework, fw)
	}
	return handler(ctx, analysis)
}

// modelBackedHandler builds the handler for one framework spec: one prompt,
// exactly one model call, fence parsing, static metadata attached.
func (g *Generator) modelBackedHandler(spec frameworkSpec) handlerFunc {
	return func(ctx context.Context, analysis *models.WebsiteAnalysis) (*models.CodeGenerationResult, error) {
		log := g.log.WithFields(logrus.Fields{
			"framework": spec.displayName,
			"url":       analysis.URL,
		})

		prompt := buildPrompt(analysis, spec, g.cfg.PromptTokenBudget)
		log.WithField("prompt_tokens", countTokens(prompt)).Debug("Invoking model")

		response, err := g.model.GenerateText(ctx, prompt)
		if err != nil {
			return nil, err
		}

		files := ParseGeneratedFiles(response)
		if len(files) == 0 {
			log.Warn("Model response contained no recoverable files")
		} else {
			log.WithField("files", len(files)).Info("Code generation complete")
		}

		return &models.CodeGenerationResult{
			Files:         files,
			Instructions:  spec.instructions,
			Dependencies:  spec.dependencies,
			BuildCommands: spec.buildCommands,
		}, nil
	}
}
