package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/geomingle/internal/domain"
)

// SeqIDs returns a deterministic id generator producing prefix-1, prefix-2, ...
// It is safe for concurrent use.
func SeqIDs(prefix string) domain.IDGenerator {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}

// ProposalOption customises a generated proposal.
type ProposalOption func(*domain.ProposedActivity)

func WithoutLocation() ProposalOption {
	return func(p *domain.ProposedActivity) {
		p.Location = ""
		p.ImageHint = ""
	}
}

// NewTestProposals returns n located proposals at consecutive hours from 9:00 AM.
func NewTestProposals(n int, opts ...ProposalOption) []domain.ProposedActivity {
	out := make([]domain.ProposedActivity, n)
	for i := range out {
		out[i] = domain.ProposedActivity{
			Time:        domain.FormatTimeOfDay((9+i)*60, domain.Clock12h),
			Description: fmt.Sprintf("Visit stop %d", i+1),
			Location:    fmt.Sprintf("Landmark %d", i+1),
			ImageHint:   "landmark day",
		}
		for _, opt := range opts {
			opt(&out[i])
		}
	}
	return out
}

// NewScenarioSnapshot builds: default [dinner], generated Paris plan with
// three activities, one of which already has an image.
func NewScenarioSnapshot() domain.Snapshot {
	ids := SeqIDs("fx")
	s := domain.InitialSnapshot()
	s = domain.NewAddCustomActivity("Dinner at the restaurant", "7:00 PM", "", ids).Apply(s)
	bulk := domain.NewBulkInsertGenerated("Paris", "art and coffee", NewTestProposals(3), ids)
	s = bulk.Apply(s)
	first := bulk.Itinerary.Activities[0]
	return domain.AttachImage{
		ActivityID:  first.ID,
		ItineraryID: bulk.Itinerary.ID,
		ImageURL:    "https://example.test/photo/1.jpg",
	}.Apply(s)
}
