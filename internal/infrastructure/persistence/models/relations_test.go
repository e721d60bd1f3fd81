package models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

// Every association in the models points from the owning row to its parent.
// A parent column sharing the foreign key's name flips GORM's guess to
// has_one, which is what these assertions catch.
func TestAssociationsAreBelongsTo(t *testing.T) {
	cache := &sync.Map{}
	for _, m := range AllModels() {
		s, err := schema.Parse(m, cache, schema.NamingStrategy{})
		require.NoError(t, err)

		for name, rel := range s.Relationships.Relations {
			t.Run(s.Name+"."+name, func(t *testing.T) {
				assert.Equal(t, schema.BelongsTo, rel.Type)
				require.Len(t, rel.References, 1)
				ref := rel.References[0]
				assert.Equal(t, "id", ref.PrimaryKey.DBName)
				assert.Equal(t, s.Table, ref.ForeignKey.Schema.Table)
			})
		}
	}
}

func TestStudentModel_NaturalKeyColumn(t *testing.T) {
	s, err := schema.Parse(&StudentModel{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	assert.NotNil(t, s.LookUpField("student_number"))
	assert.Nil(t, s.LookUpField("student_id"))

	m := StudentModel{StudentNumber: "S-001", FirstName: "Ada", LastName: "Lovelace"}
	assert.Equal(t, "S-001", m.ToRef().StudentID)
	assert.Equal(t, "S-001", m.ToDomain().StudentID)
}
