// Package commandlog turns records from the compacted command topics into
// registry commands.
package commandlog

import (
	"fraudgate/internal/domain"
	"fraudgate/internal/platform/config"
)

// Stream is one compacted topic. Each topic carries a single entity family
// for a single domain.
type Stream struct {
	Topic  string
	Domain domain.Domain
	Kind   domain.BodyKind
}

// Streams returns the eight command streams named in cfg.
func Streams(cfg config.KafkaConfig) []Stream {
	return []Stream{
		{Topic: cfg.TopicRule, Domain: domain.DomainPayment, Kind: domain.BodyRule},
		{Topic: cfg.TopicBinding, Domain: domain.DomainPayment, Kind: domain.BodyBinding},
		{Topic: cfg.TopicGroup, Domain: domain.DomainPayment, Kind: domain.BodyGroup},
		{Topic: cfg.TopicGroupReference, Domain: domain.DomainPayment, Kind: domain.BodyGroupReference},
		{Topic: cfg.TopicP2PRule, Domain: domain.DomainPeerTransfer, Kind: domain.BodyRule},
		{Topic: cfg.TopicP2PBinding, Domain: domain.DomainPeerTransfer, Kind: domain.BodyBinding},
		{Topic: cfg.TopicP2PGroup, Domain: domain.DomainPeerTransfer, Kind: domain.BodyGroup},
		{Topic: cfg.TopicP2PGroupReference, Domain: domain.DomainPeerTransfer, Kind: domain.BodyGroupReference},
	}
}

// Topics returns the topic names of streams.
func Topics(streams []Stream) []string {
	out := make([]string, len(streams))
	for i, s := range streams {
		out[i] = s.Topic
	}
	return out
}
