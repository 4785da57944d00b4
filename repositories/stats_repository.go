package repositories

import (
	"time"

	"threatlens/models"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

// TimelineRow is one classified article occurrence, bucketed per day by the
// stats service.
type TimelineRow struct {
	DatePublished  time.Time `gorm:"column:date_published"`
	Classification string    `gorm:"column:classification"`
}

// LatencyRow carries the two timestamps the service-level metric is
// computed from.
type LatencyRow struct {
	DatePublished      time.Time `gorm:"column:date_published"`
	ClassificationDate time.Time `gorm:"column:classification_date"`
}

type StatsRepository interface {
	CountByClassification(org *models.Organization) (map[string]int64, error)
	CountBacklog(org *models.Organization) (int64, error)
	TimelineRows(org *models.Organization, from, to *time.Time) ([]TimelineRow, error)
	LatencyRows(org *models.Organization) ([]LatencyRow, error)
	CriticalityValues(org *models.Organization) ([]int, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

// scoped returns the base builder every aggregate starts from: the
// organization's classification rows joined to articles, with the creation
// horizon and the OUTDATED exclusion already applied.
func (r *statsRepository) scoped(org *models.Organization) sq.SelectBuilder {
	return sq.Select().
		From("classifications").
		Join("articles ON articles.id = classifications.article_id").
		Where(sq.Eq{"classifications.organization_id": org.ID}).
		Where(sq.GtOrEq{"articles.date_published": org.CreatedAt}).
		Where(sq.NotEq{"classifications.status": models.StatusOutdated}).
		Where(sq.NotEq{"classifications.classification": models.ValueOutdated})
}

func (r *statsRepository) CountByClassification(org *models.Organization) (map[string]int64, error) {
	query, args, err := r.scoped(org).
		Columns("classifications.classification AS classification", "COUNT(*) AS count").
		Where(sq.Eq{"classifications.status": models.StatusClassified}).
		Where(sq.NotEq{"classifications.classification": ""}).
		GroupBy("classifications.classification").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Classification string `gorm:"column:classification"`
		Count          int64  `gorm:"column:count"`
	}
	if err := r.db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Classification] = row.Count
	}
	return counts, nil
}

func (r *statsRepository) CountBacklog(org *models.Organization) (int64, error) {
	query, args, err := r.scoped(org).
		Columns("COUNT(*) AS count").
		Where(sq.Or{
			sq.Eq{"classifications.classification": ""},
			sq.Eq{"classifications.status": models.StatusPending},
		}).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int64
	err = r.db.Raw(query, args...).Scan(&count).Error
	return count, err
}

func (r *statsRepository) TimelineRows(org *models.Organization, from, to *time.Time) ([]TimelineRow, error) {
	builder := r.scoped(org).
		Columns("articles.date_published AS date_published", "classifications.classification AS classification").
		Where(sq.Eq{"classifications.status": models.StatusClassified})
	if from != nil {
		builder = builder.Where(sq.GtOrEq{"articles.date_published": *from})
	}
	if to != nil {
		builder = builder.Where(sq.Lt{"articles.date_published": *to})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var rows []TimelineRow
	err = r.db.Raw(query, args...).Scan(&rows).Error
	return rows, err
}

func (r *statsRepository) CriticalityValues(org *models.Organization) ([]int, error) {
	query, args, err := r.scoped(org).
		Columns("classifications.criticality AS criticality").
		Where(sq.Eq{"classifications.status": models.StatusClassified}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var values []int
	err = r.db.Raw(query, args...).Scan(&values).Error
	return values, err
}

func (r *statsRepository) LatencyRows(org *models.Organization) ([]LatencyRow, error) {
	query, args, err := r.scoped(org).
		Columns("articles.date_published AS date_published", "classifications.classification_date AS classification_date").
		Where("classifications.classification_date IS NOT NULL").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []LatencyRow
	err = r.db.Raw(query, args...).Scan(&rows).Error
	return rows, err
}
