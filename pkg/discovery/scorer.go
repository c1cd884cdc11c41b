package discovery

import (
	"fmt"
	"strings"

	"github.com/datalens-io/datalens-engine/pkg/catalog"
	"github.com/datalens-io/datalens-engine/pkg/models"
)

// Scoring weights. These are empirically tuned constants; their relative
// ordering is the governing policy. A full-phrase hit on a name always
// outranks any combination of individual term hits, and a direct sensitive
// field-name hit outranks everything.
const (
	weightSensitiveFieldHit = 100

	weightAppPhraseName   = 30
	weightAppPhraseDesc   = 5
	weightAppPhraseCat    = 5
	weightAppTermName     = 10
	weightAppTermCategory = 4
	weightAppTermDesc     = 3
	weightAppTermTag      = 2

	weightSourcePhraseName     = 25
	weightSourcePhraseDesc     = 4
	weightSourceTermName       = 8
	weightSourceTermDept       = 3
	weightSourceTermDesc       = 2
	weightSourceTermTag        = 2
	weightSourcePaymentBoost   = 40
	weightSourcePersonnelBoost = 25

	weightTablePhraseName   = 30
	weightTablePhraseSchema = 5
	weightTablePhraseDesc   = 4
	weightTableTermName     = 9
	weightTableTermSchema   = 2
	weightTableTermDesc     = 2
	weightTablePaymentBoost = 50
	weightTableSensitive    = 15

	// Column weights are deliberately small: columns vastly outnumber
	// applications and must not dominate the merged ranking on volume.
	weightColumnPhraseName = 20
	weightColumnTermName   = 5
	weightColumnTermDesc   = 2
	weightColumnTermType   = 1
	weightColumnSensitive  = 10
)

// customerLikeTerms flag datasources and tables that in practice carry
// payment fields even when their text never mentions cards.
var customerLikeTerms = []string{"customer", "order", "payment", "transaction", "billing", "invoice"}

var personnelLikeTerms = []string{"hr", "employee", "people", "personnel", "payroll"}

// scoreBuilder accumulates additive rule contributions for one entity.
// Match type only escalates: related -> semantic -> exact.
type scoreBuilder struct {
	score     float64
	reasons   []string
	matchType models.MatchType
}

func newScoreBuilder() *scoreBuilder {
	return &scoreBuilder{matchType: models.MatchRelated}
}

func (b *scoreBuilder) add(points float64, reason string) {
	b.score += points
	b.reasons = append(b.reasons, reason)
}

func (b *scoreBuilder) escalate(mt models.MatchType) {
	switch mt {
	case models.MatchExact:
		b.matchType = models.MatchExact
	case models.MatchSemantic:
		if b.matchType != models.MatchExact {
			b.matchType = models.MatchSemantic
		}
	}
}

// reason concatenates fragments with trailing spaces and trims once.
func (b *scoreBuilder) reason() string {
	var sb strings.Builder
	for _, r := range b.reasons {
		sb.WriteString(r)
		sb.WriteString(" ")
	}
	return strings.TrimSpace(sb.String())
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func termsIn(text string, terms []string) []string {
	var hits []string
	for _, t := range terms {
		if strings.Contains(text, t) {
			hits = append(hits, t)
		}
	}
	return hits
}

// ScoreApplication scores one application against the query. A nil result
// means no rule fired; zero-score entities produce no row at all.
func ScoreApplication(app *models.Application, terms []string, phrase string, _ map[models.SensitiveDataType]bool) *models.ScoredResult {
	b := newScoreBuilder()
	name := strings.ToLower(app.Name)
	desc := strings.ToLower(app.Description)
	cat := strings.ToLower(app.Category)

	if phrase != "" {
		if strings.Contains(name, phrase) {
			b.add(weightAppPhraseName, fmt.Sprintf("Name matches %q.", phrase))
		}
		if strings.Contains(desc, phrase) {
			b.add(weightAppPhraseDesc, "Description mentions the full query.")
		}
		if strings.Contains(cat, phrase) {
			b.add(weightAppPhraseCat, "Category matches the query.")
		}
	}

	for _, t := range termsIn(name, terms) {
		b.add(weightAppTermName, fmt.Sprintf("Name contains %q.", t))
		b.escalate(models.MatchSemantic)
	}
	for _, t := range termsIn(cat, terms) {
		b.add(weightAppTermCategory, fmt.Sprintf("Category contains %q.", t))
		b.escalate(models.MatchSemantic)
	}
	for _, t := range termsIn(desc, terms) {
		b.add(weightAppTermDesc, fmt.Sprintf("Description contains %q.", t))
		b.escalate(models.MatchSemantic)
	}
	tagText := strings.ToLower(strings.Join(app.Tags, " ") + " " + strings.Join(app.Technologies, " "))
	for _, t := range termsIn(tagText, terms) {
		b.add(weightAppTermTag, fmt.Sprintf("Tagged with %q.", t))
		b.escalate(models.MatchSemantic)
	}

	if b.score == 0 {
		return nil
	}
	return &models.ScoredResult{
		Kind:      models.KindApplication,
		ID:        app.ID,
		Name:      app.Name,
		Score:     b.score,
		Reason:    b.reason(),
		Path:      app.Name,
		MatchType: b.matchType,
	}
}

// ScoreDataSource scores one datasource. Sensitive-type boosts are
// asymmetric by design: customer-facing sources are far more likely to hold
// payment fields than their descriptions admit.
func ScoreDataSource(ds *models.DataSource, terms []string, phrase string, sensitive map[models.SensitiveDataType]bool) *models.ScoredResult {
	b := newScoreBuilder()
	name := strings.ToLower(ds.Name)
	desc := strings.ToLower(ds.Description)
	dept := strings.ToLower(ds.Department)

	if phrase != "" {
		if strings.Contains(name, phrase) {
			b.add(weightSourcePhraseName, fmt.Sprintf("Name matches %q.", phrase))
		}
		if strings.Contains(desc, phrase) {
			b.add(weightSourcePhraseDesc, "Description mentions the full query.")
		}
	}

	for _, t := range termsIn(name, terms) {
		b.add(weightSourceTermName, fmt.Sprintf("Name contains %q.", t))
		b.escalate(models.MatchSemantic)
	}
	for range termsIn(dept, terms) {
		b.add(weightSourceTermDept, fmt.Sprintf("Owned by the %s department.", ds.Department))
		b.escalate(models.MatchSemantic)
	}
	for _, t := range termsIn(desc, terms) {
		b.add(weightSourceTermDesc, fmt.Sprintf("Description contains %q.", t))
		b.escalate(models.MatchSemantic)
	}
	tagText := strings.ToLower(strings.Join(ds.Tags, " "))
	for _, t := range termsIn(tagText, terms) {
		b.add(weightSourceTermTag, fmt.Sprintf("Tagged with %q.", t))
		b.escalate(models.MatchSemantic)
	}

	if sensitive[models.SensitiveCreditCard] && containsAny(name+" "+desc, customerLikeTerms) {
		b.add(weightSourcePaymentBoost, "Customer-facing source, likely holds payment data.")
		b.escalate(models.MatchSemantic)
	}
	if (sensitive[models.SensitiveSalary] || sensitive[models.SensitiveSSN] || sensitive[models.SensitiveDateOfBirth]) &&
		containsAny(name+" "+desc+" "+dept, personnelLikeTerms) {
		b.add(weightSourcePersonnelBoost, "Personnel source, likely holds employee records.")
		b.escalate(models.MatchSemantic)
	}

	if b.score == 0 {
		return nil
	}
	return &models.ScoredResult{
		Kind:      models.KindDataSource,
		ID:        ds.ID,
		Name:      ds.Name,
		Score:     b.score,
		Reason:    b.reason(),
		Path:      ds.Name,
		MatchType: b.matchType,
	}
}

// ScoreTable scores one table. Sensitivity is evaluated in the aggregate:
// a table inherits sensitivity from its columns.
func ScoreTable(t *models.Table, terms []string, phrase string, sensitive map[models.SensitiveDataType]bool) *models.ScoredResult {
	b := newScoreBuilder()
	name := strings.ToLower(t.Name)
	schema := strings.ToLower(t.Schema)
	desc := strings.ToLower(t.Description)

	if phrase != "" {
		if strings.Contains(name, phrase) {
			b.add(weightTablePhraseName, fmt.Sprintf("Table name matches %q.", phrase))
		}
		if strings.Contains(schema, phrase) {
			b.add(weightTablePhraseSchema, "Schema matches the query.")
		}
		if strings.Contains(desc, phrase) {
			b.add(weightTablePhraseDesc, "Description mentions the full query.")
		}
	}

	for _, term := range termsIn(name, terms) {
		b.add(weightTableTermName, fmt.Sprintf("Table name contains %q.", term))
		b.escalate(models.MatchSemantic)
	}
	for _, term := range termsIn(schema, terms) {
		b.add(weightTableTermSchema, fmt.Sprintf("Schema contains %q.", term))
		b.escalate(models.MatchSemantic)
	}
	for _, term := range termsIn(desc, terms) {
		b.add(weightTableTermDesc, fmt.Sprintf("Description contains %q.", term))
		b.escalate(models.MatchSemantic)
	}

	if sensitive[models.SensitiveCreditCard] && containsAny(name, customerLikeTerms) {
		b.add(weightTablePaymentBoost, "Customer or order table, likely holds payment fields.")
		b.escalate(models.MatchSemantic)
	}
	if len(sensitive) > 0 && t.IsSensitive() {
		b.add(weightTableSensitive, "Table holds sensitive data.")
	}

	if b.score == 0 {
		return nil
	}
	return &models.ScoredResult{
		Kind:      models.KindTable,
		ID:        t.ID,
		Name:      t.Name,
		Score:     b.score,
		Reason:    b.reason(),
		Path:      t.QualifiedName(),
		Sensitive: t.IsSensitive(),
		MatchType: b.matchType,
	}
}

// ScoreColumn scores one column in the context of its owning table. Direct
// sensitive field-name hits (e.g. card_number for a credit card query) are
// the only way to earn an exact match type.
func ScoreColumn(ref catalog.ColumnRef, terms []string, phrase string, sensitive map[models.SensitiveDataType]bool) *models.ScoredResult {
	b := newScoreBuilder()
	col := ref.Column
	name := strings.ToLower(col.Name)
	desc := strings.ToLower(col.Description)
	colType := strings.ToLower(col.Type)

	for _, rule := range sensitiveRules {
		if !sensitive[rule.dataType] {
			continue
		}
		if fieldNameHasAny(name, sensitiveFieldNames[rule.dataType]) {
			b.add(weightSensitiveFieldHit, fmt.Sprintf("Column %q directly holds %s data.", col.Name, rule.dataType))
			b.escalate(models.MatchExact)
		}
	}

	if phrase != "" && strings.Contains(name, phrase) {
		b.add(weightColumnPhraseName, fmt.Sprintf("Column name matches %q.", phrase))
	}
	for _, t := range termsIn(name, terms) {
		b.add(weightColumnTermName, fmt.Sprintf("Column name contains %q.", t))
		b.escalate(models.MatchSemantic)
	}
	for _, t := range termsIn(desc, terms) {
		b.add(weightColumnTermDesc, fmt.Sprintf("Description contains %q.", t))
		b.escalate(models.MatchSemantic)
	}
	for _, t := range termsIn(colType, terms) {
		b.add(weightColumnTermType, fmt.Sprintf("Declared type contains %q.", t))
		b.escalate(models.MatchSemantic)
	}

	if len(sensitive) > 0 && col.Sensitive {
		b.add(weightColumnSensitive, "Column flagged sensitive.")
	}

	if b.score == 0 {
		return nil
	}
	return &models.ScoredResult{
		Kind:      models.KindColumn,
		ID:        col.ID,
		Name:      col.Name,
		Score:     b.score,
		Reason:    b.reason(),
		Path:      ref.Table.QualifiedName() + "." + col.Name,
		Sensitive: col.Sensitive,
		MatchType: b.matchType,
	}
}
