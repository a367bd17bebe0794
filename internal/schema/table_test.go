package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"free-rent/internal/models"
)

func TestRegistryCoversEveryKind(t *testing.T) {
	for _, kind := range models.Kinds {
		table, err := Lookup(kind)
		require.NoError(t, err, kind)
		assert.Equal(t, string(kind), table.TableName())
		assert.Equal(t, "id", table.Columns[0].ColumnName())
		assert.NotEmpty(t, table.FormColumns())
	}

	_, err := Lookup(models.Kind("work_order"))
	assert.Error(t, err)
}

func TestTenantSpecs(t *testing.T) {
	table := MustFor[*models.Tenant]()

	specs := map[string]FieldSpec{}
	for _, s := range table.Specs() {
		specs[s.Name] = s
	}

	assert.NotContains(t, specs, "id")
	assert.True(t, specs["first_name"].Required)
	assert.False(t, specs["middle_name"].Required)
	assert.Equal(t, TypeDate, specs["date_of_birth"].Type)
	assert.True(t, specs["date_of_birth"].MaxToday)
	assert.Equal(t, TypeEnum, specs["emergency_contact_relationship"].Type)
	assert.Equal(t, models.EmergencyRelationships, specs["emergency_contact_relationship"].Options)
	assert.True(t, specs["notes"].Multiline)

	order := make([]string, 0, len(specs))
	for _, s := range table.Specs() {
		order = append(order, s.Name)
	}
	assert.Equal(t, []string{
		"first_name", "middle_name", "last_name", "phone", "cell", "email", "date_of_birth",
		"emergency_contact_name", "emergency_contact_phone", "emergency_contact_relationship", "notes",
	}, order)
}

func TestBoundsFromValidateTags(t *testing.T) {
	pet := MustFor[*models.Pet]()
	age, ok := pet.Column("age")
	require.True(t, ok)
	assert.Equal(t, TypeNumber, age.Type())
	require.NotNil(t, age.Spec.Min)
	require.NotNil(t, age.Spec.Max)
	assert.Equal(t, 0.0, *age.Spec.Min)
	assert.Equal(t, 100.0, *age.Spec.Max)

	owner, ok := pet.Column("tenant_id")
	require.True(t, ok)
	assert.True(t, owner.Spec.Hidden)

	vehicle := MustFor[*models.Vehicle]()
	year, _ := vehicle.Column("year")
	assert.True(t, year.Spec.MaxCurrentYear)
	assert.Equal(t, 1900.0, *year.Spec.Min)

	unitType := MustFor[*models.UnitType]()
	balcony, _ := unitType.Column("has_balcony")
	assert.Equal(t, TypeBoolean, balcony.Type())
	rangeType, _ := unitType.Column("range_type")
	assert.Equal(t, []string{"gas", "electric"}, rangeType.Spec.Options)
	assert.False(t, rangeType.Spec.Required)
}

func TestDecodeEncode(t *testing.T) {
	table := MustFor[*models.Pet]()

	pet := &models.Pet{}
	err := table.Decode(map[string]string{
		"name":    " Rex ",
		"species": "Dog",
		"breed":   "Lab",
		"age":     "0",
		"weight":  "41.5",
	}, pet)
	require.NoError(t, err)

	assert.Equal(t, "Rex", pet.Name)
	require.NotNil(t, pet.Age)
	assert.Equal(t, 0, *pet.Age)
	require.NotNil(t, pet.Weight)
	assert.Equal(t, 41.5, *pet.Weight)

	values := table.Encode(pet)
	assert.Equal(t, "0", values["age"])
	assert.Equal(t, "41.5", values["weight"])
	assert.Equal(t, "", values["notes"])

	err = table.Decode(map[string]string{"age": "", "weight": "heavy"}, pet)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, []string{"weight"}, decodeErr.Fields)
	assert.Nil(t, pet.Age)
}

func TestDecodeDatesAndBooleans(t *testing.T) {
	table := MustFor[*models.UnitType]()

	ut := &models.UnitType{}
	require.NoError(t, table.Decode(map[string]string{
		"unit_style_name": "Loft",
		"has_balcony":     "yes",
		"has_dryer":       "false",
		"date_renovated":  "2019-06-30",
	}, ut))

	assert.True(t, ut.HasBalcony)
	assert.False(t, ut.HasDryer)
	require.NotNil(t, ut.DateRenovated)
	assert.True(t, ut.DateRenovated.Equal(time.Date(2019, 6, 30, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2019-06-30", table.Encode(ut)["date_renovated"])

	err := table.Decode(map[string]string{"date_renovated": "30/06/2019"}, ut)
	assert.Error(t, err)
}

func TestAssignOwner(t *testing.T) {
	table := MustFor[*models.Vehicle]()
	v := &models.Vehicle{}

	require.NoError(t, table.Assign(v, "tenant_id", 7))
	assert.Equal(t, uint(7), v.TenantID)

	assert.Error(t, table.Assign(v, "owner", 7))
	assert.Error(t, table.Assign(v, "tenant_id", "seven"))
}

func TestReferencesAndUniqueColumns(t *testing.T) {
	unit := MustFor[*models.Unit]()
	assert.Equal(t, []Reference{
		{Column: "property_id", Table: "property"},
		{Column: "unit_type_id", Table: "unit_type"},
	}, unit.References())

	pet := MustFor[*models.Pet]()
	assert.Equal(t, []Reference{{Column: "tenant_id", Table: "tenant"}}, pet.References())

	assert.Empty(t, MustFor[*models.Tenant]().References())
	assert.Equal(t, []string{"unit_style_name"}, MustFor[*models.UnitType]().UniqueColumns())
	assert.Empty(t, MustFor[*models.Tenant]().UniqueColumns())
}

func TestGet(t *testing.T) {
	table := MustFor[*models.Unit]()
	v, err := table.Get(&models.Unit{PropertyID: 4}, "property_id")
	require.NoError(t, err)
	assert.Equal(t, uint(4), v)

	_, err = table.Get(&models.Unit{}, "floor")
	assert.Error(t, err)
}
