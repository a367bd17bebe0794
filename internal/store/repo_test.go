package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"free-rent/internal/models"
	"free-rent/internal/testutil"
)

func newRepo[T models.Entity](t *testing.T, db *gorm.DB) *Repo[T] {
	t.Helper()
	repo, err := NewRepo[T](db)
	require.NoError(t, err)
	return repo
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)

	tenants := newRepo[*models.Tenant](t, db)
	tenant := testutil.Tenant("Ann")
	tenant.EmergencyContactRelationship = "Sibling"
	tenant.Notes = "quiet\nprefers email"
	tenantID, err := tenants.Insert(ctx, tenant)
	require.NoError(t, err)
	assert.NotZero(t, tenantID)

	got, err := tenants.Get(ctx, tenantID)
	require.NoError(t, err)
	require.NotNil(t, got.DateOfBirth)
	assert.True(t, tenant.DateOfBirth.Equal(*got.DateOfBirth))
	got.DateOfBirth, tenant.DateOfBirth = nil, nil
	assert.Equal(t, tenant, got)

	pets := newRepo[*models.Pet](t, db)
	pet := testutil.Pet(tenantID, "Rex")
	pet.Age = testutil.Int(0)
	petID, err := pets.Insert(ctx, pet)
	require.NoError(t, err)
	gotPet, err := pets.Get(ctx, petID)
	require.NoError(t, err)
	assert.Equal(t, pet, gotPet)

	vehicles := newRepo[*models.Vehicle](t, db)
	vehicle := testutil.Vehicle(tenantID, "ABC123")
	vehicleID, err := vehicles.Insert(ctx, vehicle)
	require.NoError(t, err)
	gotVehicle, err := vehicles.Get(ctx, vehicleID)
	require.NoError(t, err)
	assert.Equal(t, vehicle, gotVehicle)

	properties := newRepo[*models.Property](t, db)
	property := testutil.Property("Maple Court")
	propertyID, err := properties.Insert(ctx, property)
	require.NoError(t, err)
	gotProperty, err := properties.Get(ctx, propertyID)
	require.NoError(t, err)
	assert.Equal(t, property, gotProperty)

	unitTypes := newRepo[*models.UnitType](t, db)
	unitType := testutil.UnitType("Loft")
	unitType.SqFootage = testutil.Int(850)
	unitType.RangeType = "gas"
	unitTypeID, err := unitTypes.Insert(ctx, unitType)
	require.NoError(t, err)
	gotUnitType, err := unitTypes.Get(ctx, unitTypeID)
	require.NoError(t, err)
	assert.Equal(t, unitType, gotUnitType)

	units := newRepo[*models.Unit](t, db)
	unit := testutil.Unit(propertyID, unitTypeID, "101")
	unit.IsVacant = false
	unitID, err := units.Insert(ctx, unit)
	require.NoError(t, err)
	gotUnit, err := units.Get(ctx, unitID)
	require.NoError(t, err)
	assert.Equal(t, unit, gotUnit)
}

func TestInsertIgnoresCallerID(t *testing.T) {
	ctx := context.Background()
	repo := newRepo[*models.Property](t, testutil.OpenDB(t))

	first := testutil.Property("North")
	first.ID = 42
	id, err := repo.Insert(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)
}

func TestListIsIdempotentAndFiltered(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	tenants := newRepo[*models.Tenant](t, db)
	pets := newRepo[*models.Pet](t, db)

	ann, err := tenants.Insert(ctx, testutil.Tenant("Ann"))
	require.NoError(t, err)
	bob, err := tenants.Insert(ctx, testutil.Tenant("Bob"))
	require.NoError(t, err)
	for _, p := range []*models.Pet{testutil.Pet(ann, "Rex"), testutil.Pet(bob, "Tom"), testutil.Pet(ann, "Kit")} {
		_, err := pets.Insert(ctx, p)
		require.NoError(t, err)
	}

	first, err := pets.List(ctx)
	require.NoError(t, err)
	second, err := pets.List(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 3)
	assert.Equal(t, first, second)

	owned, err := pets.List(ctx, Filter{Column: "tenant_id", Value: ann})
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, "Rex", owned[0].Name)
	assert.Equal(t, "Kit", owned[1].Name)

	_, err = pets.List(ctx, Filter{Column: "owner", Value: ann})
	assert.ErrorIs(t, err, ErrInvalidFilter)

	injected, err := pets.List(ctx, Filter{Column: "name", Value: "Rex' OR '1'='1"})
	require.NoError(t, err)
	assert.Empty(t, injected)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	properties := newRepo[*models.Property](t, db)
	unitTypes := newRepo[*models.UnitType](t, db)
	units := newRepo[*models.Unit](t, db)

	propertyID, err := properties.Insert(ctx, testutil.Property("Maple Court"))
	require.NoError(t, err)
	unitTypeID, err := unitTypes.Insert(ctx, testutil.UnitType("Loft"))
	require.NoError(t, err)
	unitID, err := units.Insert(ctx, testutil.Unit(propertyID, unitTypeID, "101"))
	require.NoError(t, err)

	changed := testutil.Unit(propertyID, unitTypeID, "102")
	changed.IsVacant = false
	changed.Notes = "renovating"
	require.NoError(t, units.Update(ctx, unitID, changed))

	got, err := units.Get(ctx, unitID)
	require.NoError(t, err)
	assert.Equal(t, "102", got.UnitNumber)
	assert.False(t, got.IsVacant)
	assert.Equal(t, "renovating", got.Notes)

	err = units.Update(ctx, 99, testutil.Unit(propertyID, unitTypeID, "103"))
	assert.ErrorIs(t, err, ErrNotFound)

	err = units.Update(ctx, unitID, testutil.Unit(propertyID, 77, "101"))
	var ce *ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "unit_type_id", ce.Field)
}

func TestDeleteThenGet(t *testing.T) {
	ctx := context.Background()
	repo := newRepo[*models.UnitType](t, testutil.OpenDB(t))

	id, err := repo.Insert(ctx, testutil.UnitType("Studio"))
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, id))

	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrPersistence)

	assert.ErrorIs(t, repo.Delete(ctx, id), ErrNotFound)
}

func TestDuplicateUnitStyleName(t *testing.T) {
	ctx := context.Background()
	repo := newRepo[*models.UnitType](t, testutil.OpenDB(t))

	_, err := repo.Insert(ctx, testutil.UnitType("Loft"))
	require.NoError(t, err)

	_, err = repo.Insert(ctx, testutil.UnitType("Loft"))
	assert.ErrorIs(t, err, ErrConstraintViolation)
	var ce *ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "unit_style_name", ce.Field)

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestInsertWithMissingReference(t *testing.T) {
	ctx := context.Background()
	repo := newRepo[*models.Pet](t, testutil.OpenDB(t))

	_, err := repo.Insert(ctx, testutil.Pet(99, "Rex"))
	var ce *ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "tenant_id", ce.Field)
	assert.ErrorIs(t, err, ErrConstraintViolation)
}

func TestDeleteBlockedByDependents(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	tenants := newRepo[*models.Tenant](t, db)
	vehicles := newRepo[*models.Vehicle](t, db)

	tenantID, err := tenants.Insert(ctx, testutil.Tenant("Ann"))
	require.NoError(t, err)
	vehicleID, err := vehicles.Insert(ctx, testutil.Vehicle(tenantID, "ABC123"))
	require.NoError(t, err)

	err = tenants.Delete(ctx, tenantID)
	var ce *ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "vehicles", ce.Field)
	_, err = tenants.Get(ctx, tenantID)
	require.NoError(t, err)

	require.NoError(t, vehicles.Delete(ctx, vehicleID))
	require.NoError(t, tenants.Delete(ctx, tenantID))
}

func TestForeignKeysEnforcedByDatabase(t *testing.T) {
	db := testutil.OpenDB(t)
	ann := testutil.Tenant("Ann")
	require.NoError(t, db.Create(ann).Error)
	require.NoError(t, db.Create(testutil.Pet(ann.ID, "Rex")).Error)

	err := db.Delete(&models.Tenant{}, ann.ID).Error
	require.Error(t, err)
	assert.ErrorIs(t, translate(newRepo[*models.Tenant](t, db).Table(), err), ErrConstraintViolation)
}

func newMockRepo[T models.Entity](t *testing.T) (*Repo[T], sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return newRepo[T](t, db), mock
}

func TestInsertRollsBackOnDriverFailure(t *testing.T) {
	repo, mock := newMockRepo[*models.Tenant](t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "tenant"`)).
		WillReturnError(errors.New("connection reset by peer"))
	mock.ExpectRollback()

	_, err := repo.Insert(context.Background(), testutil.Tenant("Ann"))
	assert.ErrorIs(t, err, ErrPersistence)
	assert.NotErrorIs(t, err, ErrConstraintViolation)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRollsBackOnDriverFailure(t *testing.T) {
	repo, mock := newMockRepo[*models.Property](t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "property"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "property"`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), 1, testutil.Property("Maple Court"))
	assert.ErrorIs(t, err, ErrPersistence)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen(t *testing.T) {
	db, err := Open(DriverSQLite, ":memory:", false)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	_, err = Open("mysql", "root@/rent", false)
	assert.Error(t, err)

	assert.Equal(t, "rent.db?_foreign_keys=1", sqliteDSN("rent.db"))
	assert.Equal(t, "rent.db?cache=shared&_foreign_keys=1", sqliteDSN("rent.db?cache=shared"))
	assert.Equal(t, "rent.db?_fk=1", sqliteDSN("rent.db?_fk=1"))
}
