package detect

import "github.com/restockd/restockd/internal/models"

// Kind classifies what changed between a stored product record and a
// fresh check result.
type Kind int

const (
	// Unchanged means nothing notification-worthy happened.
	Unchanged Kind = iota
	// StateChanged means the availability flipped. It takes priority
	// over a simultaneous price change.
	StateChanged
	// PriceChanged means the price moved while availability held, and
	// both old and new prices are known.
	PriceChanged
)

func (k Kind) String() string {
	switch k {
	case StateChanged:
		return "state_changed"
	case PriceChanged:
		return "price_changed"
	default:
		return "unchanged"
	}
}

// Outcome carries the data a collaborator needs to render a
// notification. The rendered text itself is not produced here.
type Outcome struct {
	Kind Kind

	// StateChanged: the transition endpoints, plus the current price
	// if one was extracted.
	FromAvailable bool
	ToAvailable   bool
	Price         string

	// PriceChanged: the old and new prices.
	OldPrice string
	NewPrice string
}

// Classify compares a fresh check result against the previously stored
// record. A restock or out-of-stock event suppresses price-change
// detection for the same round. A price appearing where none was known
// before (or disappearing) is not a price change.
func Classify(prior *models.Product, result *models.CheckResult) Outcome {
	if prior != nil && prior.Available != nil && *prior.Available != result.Available {
		return Outcome{
			Kind:          StateChanged,
			FromAvailable: *prior.Available,
			ToAvailable:   result.Available,
			Price:         result.Price,
		}
	}

	if prior != nil && prior.Price != "" && result.Price != "" && prior.Price != result.Price {
		return Outcome{
			Kind:     PriceChanged,
			OldPrice: prior.Price,
			NewPrice: result.Price,
		}
	}

	return Outcome{Kind: Unchanged}
}
