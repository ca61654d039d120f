package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSelect(t *testing.T) {
	query, args := NewQueryBuilder("grading").
		Select("id", "name", "email").
		From("students").
		Where("is_active = ?", true).
		And("email = ?", "ada@example.com").
		OrderBy("name", true).
		Build()

	assert.Equal(t, "SELECT id, name, email FROM grading.students WHERE is_active = ? AND email = ? ORDER BY name ASC", query)
	assert.Equal(t, []interface{}{true, "ada@example.com"}, args)
}

func TestBuildSelectNoConditions(t *testing.T) {
	query, args := NewQueryBuilder("grading").
		Select("id").
		From("students").
		OrderBy("enrolled_at", false).
		Build()

	assert.Equal(t, "SELECT id FROM grading.students ORDER BY enrolled_at DESC", query)
	assert.Empty(t, args)
}

func TestBuildInsert(t *testing.T) {
	query, args := NewQueryBuilder("grading").
		Insert("id", "name").
		Into("students").
		Values("s-1", "Ada").
		Values("s-2", "Grace").
		Build()

	assert.Equal(t, "INSERT INTO grading.students (id, name) VALUES (?, ?), (?, ?)", query)
	assert.Equal(t, []interface{}{"s-1", "Ada", "s-2", "Grace"}, args)
}

func TestBuildInsertMismatchedRow(t *testing.T) {
	query, args := NewQueryBuilder("grading").
		Insert("id", "name").
		Into("students").
		Values("s-1").
		Build()

	assert.Empty(t, query)
	assert.Nil(t, args)
}

func TestBuildUpdate(t *testing.T) {
	query, args := NewQueryBuilder("grading").
		Update("students", UpdateData{
			"name":      "Ada",
			"is_active": false,
		}).
		Where("id = ?", "s-1").
		Build()

	assert.Equal(t, "UPDATE grading.students SET is_active = ?, name = ? WHERE id = ?", query)
	assert.Equal(t, []interface{}{false, "Ada", "s-1"}, args)
}
