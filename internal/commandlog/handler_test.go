package commandlog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"fraudgate/internal/commandlog/mocks"
	"fraudgate/internal/domain"
	"fraudgate/internal/platform/kafka/consumer"
	"fraudgate/internal/registry"
	dErrors "fraudgate/pkg/domain-errors"
)

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	applier *mocks.MockApplier
	handler *Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.applier = mocks.NewMockApplier(s.ctrl)
	s.handler = NewHandler(ruleStream, s.applier, nil, nil)
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) msg(key, value string) *consumer.Message {
	m := &consumer.Message{Topic: ruleStream.Topic, Key: []byte(key)}
	if value != "" {
		m.Value = []byte(value)
	}
	return m
}

func (s *HandlerSuite) TestAppliesDecodedCommand() {
	s.applier.EXPECT().
		ApplyCommand(gomock.Any()).
		DoAndReturn(func(cmd domain.Command) (registry.ApplyResult, error) {
			s.Equal("r1", cmd.Key)
			s.Equal(domain.CommandCreate, cmd.Type)
			return registry.ResultCreated, nil
		})

	err := s.handler.Handle(context.Background(),
		s.msg("r1", `{"command_type":"CREATE","body":{"rule":{"rule_id":"r1","source":"return nil"}}}`))
	s.NoError(err)
}

func (s *HandlerSuite) TestTombstoneAppliesDelete() {
	s.applier.EXPECT().
		ApplyCommand(domain.Command{Type: domain.CommandDelete, Domain: domain.DomainPayment, Kind: domain.BodyRule, Key: "r1"}).
		Return(registry.ResultNoop, nil)

	s.NoError(s.handler.Handle(context.Background(), s.msg("r1", "")))
}

func (s *HandlerSuite) TestMalformedRecordIsAcknowledgedWithoutApplying() {
	// no ApplyCommand expectation: the registry must not be touched
	err := s.handler.Handle(context.Background(), s.msg("r1", `not json`))
	s.NoError(err)
}

func (s *HandlerSuite) TestMalformedRejectedByRegistryIsAcknowledged() {
	s.applier.EXPECT().ApplyCommand(gomock.Any()).
		Return(registry.ApplyResult(""), dErrors.New(dErrors.CodeMalformedCommand, "malformed command"))

	s.NoError(s.handler.Handle(context.Background(), s.msg("r1", "")))
}

func (s *HandlerSuite) TestUnexpectedErrorIsRetried() {
	s.applier.EXPECT().ApplyCommand(gomock.Any()).
		Return(registry.ApplyResult(""), errors.New("boom"))

	s.Error(s.handler.Handle(context.Background(), s.msg("r1", "")))
}
