package inventory

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"medstock/m/internal/repository"
	"medstock/m/internal/testutil"
)

type services struct {
	db         *sqlx.DB
	ledger     *Ledger
	aggregator *Aggregator
	classifier *Classifier
	search     *Search
	dashboard  *Dashboard
}

func newServices(t *testing.T, opts ...Option) *services {
	t.Helper()

	db := testutil.NewTestDB(t)
	opts = append([]Option{WithClock(testutil.Clock)}, opts...)

	pharmacies := repository.NewPharmacyRepository(db, nil)
	batches := repository.NewBatchRepository(db, nil)
	aggregator := NewAggregator(pharmacies, repository.NewStockRepository(db, nil), batches, opts...)
	classifier := NewClassifier(pharmacies, batches, opts...)

	return &services{
		db:         db,
		ledger:     NewLedger(pharmacies, batches, opts...),
		aggregator: aggregator,
		classifier: classifier,
		search:     NewSearch(repository.NewSearchRepository(db, nil), opts...),
		dashboard:  NewDashboard(pharmacies, aggregator, classifier, opts...),
	}
}
