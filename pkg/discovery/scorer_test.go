package discovery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalens-io/datalens-engine/pkg/catalog"
	"github.com/datalens-io/datalens-engine/pkg/models"
)

func TestScoreApplication(t *testing.T) {
	app := &models.Application{
		ID:          "app-1",
		Name:        "PayFlow",
		Category:    "Finance",
		Description: "Payment processing platform",
		Tags:        []string{"payments"},
	}

	t.Run("no rule fires yields no result", func(t *testing.T) {
		got := ScoreApplication(app, []string{"kubernetes"}, "kubernetes", nil)
		assert.Nil(t, got)
	})

	t.Run("phrase in name outranks term matches", func(t *testing.T) {
		phraseHit := ScoreApplication(app, []string{"payflow"}, "payflow", nil)
		require.NotNil(t, phraseHit)

		termHits := ScoreApplication(app, []string{"payment", "processing"}, "payment processing tools", nil)
		require.NotNil(t, termHits)

		assert.Greater(t, phraseHit.Score, termHits.Score)
	})

	t.Run("term hit escalates to semantic", func(t *testing.T) {
		got := ScoreApplication(app, []string{"payment"}, "payment tools", nil)
		require.NotNil(t, got)
		assert.Equal(t, models.MatchSemantic, got.MatchType)
	})

	t.Run("repeated query words do not inflate the score", func(t *testing.T) {
		once := ScoreApplication(app, Tokenize("payment tools"), "payment tools", nil)
		require.NotNil(t, once)
		twice := ScoreApplication(app, Tokenize("payment payment tools"), "payment payment tools", nil)
		require.NotNil(t, twice)
		assert.Equal(t, once.Score, twice.Score)
	})

	t.Run("reason is trimmed", func(t *testing.T) {
		got := ScoreApplication(app, []string{"payment"}, "payment tools", nil)
		require.NotNil(t, got)
		assert.Equal(t, strings.TrimSpace(got.Reason), got.Reason)
		assert.NotEmpty(t, got.Reason)
	})
}

func TestScoreDataSource(t *testing.T) {
	ds := &models.DataSource{
		ID:          "ds-1",
		Name:        "customer-orders-db",
		Description: "Customer orders and payment transactions",
		Department:  "Sales",
	}

	t.Run("credit card query boosts customer-like source", func(t *testing.T) {
		sensitive := map[models.SensitiveDataType]bool{models.SensitiveCreditCard: true}
		boosted := ScoreDataSource(ds, nil, "credit card", sensitive)
		require.NotNil(t, boosted)

		plain := &models.DataSource{ID: "ds-2", Name: "metrics-db", Description: "Service metrics"}
		got := ScoreDataSource(plain, nil, "credit card", sensitive)
		assert.Nil(t, got)

		assert.GreaterOrEqual(t, boosted.Score, float64(weightSourcePaymentBoost))
	})

	t.Run("personnel source boosted for salary query", func(t *testing.T) {
		hr := &models.DataSource{
			ID:          "ds-3",
			Name:        "hr-people-db",
			Description: "Employee records",
			Department:  "HR",
		}
		sensitive := map[models.SensitiveDataType]bool{models.SensitiveSalary: true}
		got := ScoreDataSource(hr, nil, "salary data", sensitive)
		require.NotNil(t, got)
		assert.GreaterOrEqual(t, got.Score, float64(weightSourcePersonnelBoost))
	})
}

func TestScoreTable(t *testing.T) {
	table := &models.Table{
		ID:     "tbl-1",
		Name:   "customers",
		Schema: "public",
		Columns: []models.Column{
			{ID: "col-1", Name: "card_number", Sensitive: true},
		},
	}

	t.Run("aggregate sensitivity flows into result", func(t *testing.T) {
		sensitive := map[models.SensitiveDataType]bool{models.SensitiveCreditCard: true}
		got := ScoreTable(table, []string{"customers"}, "customers", sensitive)
		require.NotNil(t, got)
		assert.True(t, got.Sensitive, "table with a sensitive column must be sensitive in results")
		assert.Equal(t, "public.customers", got.Path)
	})

	t.Run("customer table boosted on credit card query", func(t *testing.T) {
		sensitive := map[models.SensitiveDataType]bool{models.SensitiveCreditCard: true}
		got := ScoreTable(table, nil, "credit card", sensitive)
		require.NotNil(t, got)
		assert.GreaterOrEqual(t, got.Score, float64(weightTablePaymentBoost))
	})
}

func TestScoreColumn(t *testing.T) {
	table := &models.Table{ID: "tbl-1", Name: "customers", Schema: "public"}
	card := catalog.ColumnRef{
		Table:  table,
		Column: &models.Column{ID: "col-1", Name: "card_number", Type: "varchar(19)", Sensitive: true},
	}

	t.Run("direct sensitive field hit is exact", func(t *testing.T) {
		sensitive := map[models.SensitiveDataType]bool{models.SensitiveCreditCard: true}
		got := ScoreColumn(card, []string{"credit", "card"}, "credit card", sensitive)
		require.NotNil(t, got)
		assert.Equal(t, models.MatchExact, got.MatchType)
		assert.GreaterOrEqual(t, got.Score, float64(weightSensitiveFieldHit))
		assert.Equal(t, "public.customers.card_number", got.Path)
		assert.True(t, got.Sensitive)
	})

	t.Run("field names match on token boundaries only", func(t *testing.T) {
		sensitive := map[models.SensitiveDataType]bool{models.SensitiveCreditCard: true}
		for _, name := range []string{"company", "panel_id", "expand"} {
			ref := catalog.ColumnRef{
				Table:  table,
				Column: &models.Column{ID: "col-x", Name: name},
			}
			assert.Nil(t, ScoreColumn(ref, nil, "credit card", sensitive),
				"column %q must not count as a payment field", name)
		}

		pan := catalog.ColumnRef{
			Table:  table,
			Column: &models.Column{ID: "col-y", Name: "card_pan"},
		}
		got := ScoreColumn(pan, nil, "credit card", sensitive)
		require.NotNil(t, got)
		assert.Equal(t, models.MatchExact, got.MatchType)
	})

	t.Run("exact hit requires the type to be detected", func(t *testing.T) {
		got := ScoreColumn(card, []string{"card"}, "card", nil)
		require.NotNil(t, got)
		assert.NotEqual(t, models.MatchExact, got.MatchType)
		assert.Less(t, got.Score, float64(weightSensitiveFieldHit))
	})

	t.Run("column term weight stays below application term weight", func(t *testing.T) {
		assert.Less(t, weightColumnTermName, weightAppTermName,
			"column matches must not dominate application results on volume")
	})

	t.Run("nothing matches yields no result", func(t *testing.T) {
		got := ScoreColumn(card, []string{"kubernetes"}, "kubernetes", nil)
		assert.Nil(t, got)
	})
}
