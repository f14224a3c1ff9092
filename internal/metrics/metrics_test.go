package metrics_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/domain"
	"github.com/woodfy/workshop-api/internal/metrics"
	"github.com/woodfy/workshop-api/internal/store"
)

func TestMetrics_ObservesStoreCommits(t *testing.T) {
	m := metrics.New()
	persister := store.NewMemoryPersister()
	st := store.New(persister, zap.NewNop(), store.WithObserver(m))
	require.NoError(t, st.Load(context.Background()))

	_, err := st.Mutate(context.Background(), func(tx *store.Tx) error {
		return tx.UpsertCustomer(domain.Customer{ID: "c1", Name: "Ana Souza"})
	})
	require.NoError(t, err)

	persister.FailWith(errors.New("disk full"))
	_, err = st.Mutate(context.Background(), func(tx *store.Tx) error {
		return tx.UpsertCustomer(domain.Customer{ID: "c2", Name: "Bruno Lima"})
	})
	require.Error(t, err)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `workshop_store_commits_total{collection="customers"} 1`)
	assert.Contains(t, body, `workshop_store_commit_failures_total{reason="persist"} 1`)
	assert.Contains(t, body, "workshop_store_revision 1")
}

func TestMetrics_CountsDerivedCollections(t *testing.T) {
	m := metrics.New()
	st := store.New(store.NewMemoryPersister(), zap.NewNop(), store.WithObserver(m))
	require.NoError(t, st.Load(context.Background()))

	_, err := st.Mutate(context.Background(), func(tx *store.Tx) error {
		return tx.UpsertCustomer(domain.Customer{ID: "c1", Name: "Ana Souza"})
	})
	require.NoError(t, err)

	commit, err := st.Mutate(context.Background(), func(tx *store.Tx) error {
		return tx.UpsertProject(domain.Project{
			ID:            "p1",
			Code:          "PROJ-001",
			ClientID:      "c1",
			StartDate:     "2024-05-01",
			ValueSold:     3000,
			Status:        domain.ProjectStatusFinished,
			PaymentStatus: domain.PaymentStatusPaid,
		})
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.Collection{domain.CollectionProjects}, commit.Touched)
	assert.Contains(t, commit.Derived, domain.CollectionCustomers)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `workshop_store_commits_total{collection="customers"} 2`)
	assert.Contains(t, body, `workshop_store_commits_total{collection="projects"} 1`)
}

func TestMetrics_JobRun(t *testing.T) {
	m := metrics.New()

	m.JobRun("backup", nil)
	m.JobRun("backup", errors.New("boom"))
	m.JobRun("backup", nil)

	count, err := testutil.GatherAndCount(m.Registry(), "workshop_job_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `workshop_job_runs_total{job="backup",outcome="success"} 2`)
}
