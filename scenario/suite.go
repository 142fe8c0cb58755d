package scenario

import (
	"context"
	"fmt"

	"github.com/thelinuxer/cypress-cucumber-preprocessor/config"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/host"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/report"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/shared"
	"go.uber.org/zap"
)

// Suite turns one feature into host test cases and writes its report
type Suite struct {
	feature  *shared.Feature
	resolver Resolver
	session  Session
	source   report.Source
	cfg      config.Config
	selector Selector
	logger   *zap.Logger
}

// Option configures a Suite
type Option func(*Suite)

// WithConfig sets report and evidence configuration
func WithConfig(cfg config.Config) Option {
	return func(s *Suite) { s.cfg = cfg }
}

// WithSelector overrides the tag expression from the configuration
func WithSelector(selector Selector) Option {
	return func(s *Suite) { s.selector = selector }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Suite) { s.logger = logger }
}

// WithReportSource sets where results are read from when the session itself
// does not expose them.
func WithReportSource(src report.Source) Option {
	return func(s *Suite) { s.source = src }
}

// NewSuite creates a suite for feature. The selector defaults to cfg.Tags.
func NewSuite(feature *shared.Feature, resolver Resolver, session Session, opts ...Option) (*Suite, error) {
	s := &Suite{
		feature:  feature,
		resolver: resolver,
		session:  session,
		cfg:      config.Default(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.selector == nil {
		selector, err := TagSelector(s.cfg.Tags)
		if err != nil {
			return nil, err
		}
		s.selector = selector
	}
	if s.source == nil {
		if src, ok := session.(report.Source); ok {
			s.source = src
		}
	}
	return s, nil
}

// Register wires the suite lifecycle into h and registers every scenario.
// It returns the scenarios in registration order.
func (s *Suite) Register(h host.Host) []shared.ConcreteScenario {
	h.Before(func(context.Context) error {
		s.session.OnStartTest()
		return nil
	})

	h.BeforeEach(func(tc host.TestCase) {
		var sub host.Subscription
		sub = tc.OnFail(func(err error) error {
			sub.Unsubscribe()
			s.session.OnFail(err)
			return err
		})
	})

	scenarios := NewMaterializer(s.feature, s.selector).MaterializeAll(s.feature.Sections)
	runner := NewRunner(h, s.session, s.resolver, s.feature.Name, s.logger)
	for _, sc := range scenarios {
		runner.Register(sc)
	}
	s.logger.Info("Scenarios registered", zap.String("feature", s.feature.Name), zap.Int("count", len(scenarios)))

	h.After(func(context.Context) error {
		s.session.OnFinishTest()
		if !s.cfg.Generate {
			return nil
		}
		_, err := s.Publish()
		return err
	})
	return scenarios
}

// Publish assembles the report, embeds evidence and writes it. It returns
// the path written.
func (s *Suite) Publish() (string, error) {
	if s.source == nil {
		return "", fmt.Errorf("session does not expose results for feature %q", s.feature.Name)
	}

	tree := report.Generate(s.source)
	if s.cfg.EmbedEvidence {
		folder := report.FeatureFolder(tree, s.cfg.IntegrationFolder)
		res, err := report.NewEmbedder(s.cfg, s.logger).Embed(tree, folder)
		if err != nil {
			return "", fmt.Errorf("failed to embed evidence: %w", err)
		}
		if len(res.Unmatched) > 0 {
			s.logger.Warn("Evidence files without a matching step", zap.Strings("files", res.Unmatched))
		}
	}

	path := report.OutputPath(s.cfg, tree)
	if err := report.WriteFile(path, tree); err != nil {
		return "", err
	}
	s.logger.Info("Cucumber json written", zap.String("path", path))
	return path, nil
}
