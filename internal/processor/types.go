package processor

import (
	"github.com/Fandor1in/padel-miniapp/internal/config"
	"github.com/Fandor1in/padel-miniapp/internal/inflight"
	"github.com/Fandor1in/padel-miniapp/internal/league"
	"github.com/Fandor1in/padel-miniapp/internal/metrics"
	"github.com/Fandor1in/padel-miniapp/internal/notifier"
	"github.com/Fandor1in/padel-miniapp/internal/pubsub"
)

// Processor handles the business logic of the match lifecycle: joining,
// reporting, confirmation and the rating updates a confirmed result triggers.
type Processor struct {
	store    league.Store
	notifier notifier.Notifier
	metrics  metrics.Metrics
	pubsub   pubsub.PubSubClient
	locks    *inflight.Registry
	rating   config.RatingConfig
	confirm  config.ConfirmConfig
}

// SetInput is one reported set, the reporter's side first.
type SetInput struct {
	P1 int `json:"p1"`
	P2 int `json:"p2"`
}

// ReportMatchRequest carries everything needed to report a played match.
// The reporter and PartnerID form pair 1; the opponents form pair 2.
type ReportMatchRequest struct {
	Date        string     `json:"date"`
	Time        string     `json:"time"`
	PartnerID   string     `json:"partner_id"`
	Opponent1ID string     `json:"opponent1_id"`
	Opponent2ID string     `json:"opponent2_id"`
	Sets        []SetInput `json:"sets"`
}
