package postgres

import (
	"context"
	"testing"
	"time"

	"eatery/internal/domain/entity"
	"eatery/internal/domain/repository"
	"eatery/internal/infra/persistence/sqlitetest"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedRestaurant(t *testing.T, db *gorm.DB, ownerID uuid.UUID) *entity.Restaurant {
	t.Helper()

	restaurant := &entity.Restaurant{
		OwnerID:   ownerID,
		Name:      "Noodle Bar",
		Location:  orb.Point{121.5654, 25.0330},
		Lifecycle: entity.NewLifecycle(entity.StatusPublished),
	}
	require.NoError(t, NewRestaurantRepository(db).Create(context.Background(), restaurant))

	return restaurant
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	db := sqlitetest.New(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &entity.User{Email: "Alice@Example.com ", Name: "Alice", PasswordHash: "hash", Role: entity.RoleUser, IsActive: true}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)

	found, err := repo.FindByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "hash", found.PasswordHash)

	err = repo.Create(ctx, &entity.User{Email: "alice@example.com", PasswordHash: "x", IsActive: true})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_Update(t *testing.T) {
	db := sqlitetest.New(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &entity.User{Email: "owner@example.com", PasswordHash: "hash", Role: entity.RoleUser, IsActive: true}
	require.NoError(t, repo.Create(ctx, user))

	restaurantID := uuid.New()
	user.Role = entity.RoleAdmin
	user.OwnedRestaurantID = &restaurantID
	user.IsActive = false
	require.NoError(t, repo.Update(ctx, user))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, found.Role)
	require.NotNil(t, found.OwnedRestaurantID)
	assert.Equal(t, restaurantID, *found.OwnedRestaurantID)
	assert.False(t, found.IsActive)

	assert.ErrorIs(t, repo.Update(ctx, &entity.User{ID: uuid.New(), Role: entity.RoleUser}), repository.ErrUserNotFound)
}

func TestRestaurantRepository_DefaultScopingHidesSoftDeleted(t *testing.T) {
	db := sqlitetest.New(t)
	repo := NewRestaurantRepository(db)
	ctx := context.Background()
	actor := uuid.New()

	restaurant := seedRestaurant(t, db, uuid.New())

	expected := restaurant.Lifecycle
	assert.True(t, restaurant.SoftDelete(actor, time.Now().UTC()))
	require.NoError(t, repo.SaveLifecycle(ctx, repository.LifecycleChange{ID: restaurant.ID, Expected: expected, State: restaurant.Lifecycle}))

	_, err := repo.FindByID(ctx, restaurant.ID, repository.QueryOptions{})
	assert.ErrorIs(t, err, repository.ErrRestaurantNotFound)

	list, total, err := repo.List(ctx, repository.RestaurantFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)

	hidden, err := repo.FindByID(ctx, restaurant.ID, repository.QueryOptions{IncludeInactive: true})
	require.NoError(t, err)
	assert.False(t, hidden.IsActive)
	require.NotNil(t, hidden.DeletedBy)
	assert.Equal(t, actor, *hidden.DeletedBy)

	expected = hidden.Lifecycle
	assert.True(t, hidden.Restore(actor, time.Now().UTC()))
	require.NoError(t, repo.SaveLifecycle(ctx, repository.LifecycleChange{ID: hidden.ID, Expected: expected, State: hidden.Lifecycle}))

	restored, err := repo.FindByID(ctx, restaurant.ID, repository.QueryOptions{})
	require.NoError(t, err)
	assert.True(t, restored.IsActive)
	assert.Equal(t, entity.StatusDraft, restored.Status)
	assert.NotNil(t, restored.RestoredAt)
}

func TestRestaurantRepository_ListFilters(t *testing.T) {
	db := sqlitetest.New(t)
	repo := NewRestaurantRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	seedRestaurant(t, db, ownerID)
	far := &entity.Restaurant{
		OwnerID:   uuid.New(),
		Name:      "Harbour Grill",
		Location:  orb.Point{120.3014, 22.6273},
		Lifecycle: entity.NewLifecycle(entity.StatusDraft),
	}
	require.NoError(t, repo.Create(ctx, far))

	published := entity.StatusPublished
	list, total, err := repo.List(ctx, repository.RestaurantFilter{Status: &published})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, ownerID, list[0].OwnerID)
	assert.InDelta(t, 25.0330, list[0].Location.Lat(), 1e-9)

	bound := orb.Bound{Min: orb.Point{121, 24.5}, Max: orb.Point{122, 25.5}}
	list, _, err = repo.List(ctx, repository.RestaurantFilter{Bound: &bound})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Noodle Bar", list[0].Name)

	list, total, err = repo.List(ctx, repository.RestaurantFilter{Pagination: repository.Pagination{Page: 1, PageSize: 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 1)
}

func TestRestaurantRepository_UpdateRatingSummaryAndHardDelete(t *testing.T) {
	db := sqlitetest.New(t)
	repo := NewRestaurantRepository(db)
	ctx := context.Background()

	restaurant := seedRestaurant(t, db, uuid.New())

	require.NoError(t, repo.UpdateRatingSummary(ctx, restaurant.ID, entity.RatingSummary{Count: 2, Average: 4.5}))
	found, err := repo.FindByID(ctx, restaurant.ID, repository.QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, entity.RatingSummary{Count: 2, Average: 4.5}, found.Rating)

	require.NoError(t, repo.UpdateRatingSummary(ctx, restaurant.ID, entity.RatingSummary{}))
	found, err = repo.FindByID(ctx, restaurant.ID, repository.QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, entity.RatingSummary{}, found.Rating)

	require.NoError(t, repo.HardDelete(ctx, restaurant.ID))
	_, err = repo.FindByID(ctx, restaurant.ID, repository.QueryOptions{IncludeInactive: true})
	assert.ErrorIs(t, err, repository.ErrRestaurantNotFound)
	assert.ErrorIs(t, repo.HardDelete(ctx, restaurant.ID), repository.ErrRestaurantNotFound)
}

func TestCategoryRepository_CountRespectsScoping(t *testing.T) {
	db := sqlitetest.New(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()
	restaurant := seedRestaurant(t, db, uuid.New())

	first := &entity.Category{RestaurantID: restaurant.ID, Name: "Mains", Position: 2, Lifecycle: entity.NewLifecycle(entity.StatusPublished)}
	second := &entity.Category{RestaurantID: restaurant.ID, Name: "Drinks", Position: 1, Lifecycle: entity.NewLifecycle(entity.StatusPublished)}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	list, err := repo.ListByRestaurant(ctx, restaurant.ID, repository.QueryOptions{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Drinks", list[0].Name)

	expected := first.Lifecycle
	first.SoftDelete(uuid.New(), time.Now().UTC())
	require.NoError(t, repo.SaveLifecycle(ctx, repository.LifecycleChange{ID: first.ID, Expected: expected, State: first.Lifecycle}))

	active, err := repo.CountByRestaurant(ctx, restaurant.ID, repository.QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), active)

	all, err := repo.CountByRestaurant(ctx, restaurant.ID, repository.QueryOptions{IncludeInactive: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all)

	first.Name = "Renamed"
	assert.ErrorIs(t, repo.Update(ctx, first), repository.ErrCategoryNotFound)
}

func TestMenuRepository_OptimisticConcurrency(t *testing.T) {
	db := sqlitetest.New(t)
	repo := NewMenuRepository(db)
	ctx := context.Background()
	restaurant := seedRestaurant(t, db, uuid.New())

	menu := &entity.Menu{RestaurantID: restaurant.ID, Name: "Ramen", PriceCents: 1200, Lifecycle: entity.NewLifecycle(entity.StatusDraft)}
	require.NoError(t, repo.Create(ctx, menu))
	assert.Equal(t, 1, menu.Version)

	first := *menu
	first.PriceCents = 1300
	require.NoError(t, repo.Update(ctx, &first, 1))
	assert.Equal(t, 2, first.Version)

	stale := *menu
	stale.PriceCents = 900
	assert.ErrorIs(t, repo.Update(ctx, &stale, 1), repository.ErrVersionConflict)

	found, err := repo.FindByID(ctx, menu.ID, repository.QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1300), found.PriceCents)
	assert.Equal(t, 2, found.Version)

	expected := found.Lifecycle
	found.SetStatus(entity.StatusPublished)
	require.NoError(t, repo.SaveLifecycle(ctx, repository.LifecycleChange{ID: found.ID, Expected: expected, State: found.Lifecycle, Version: found.Version}))
	bumped, err := repo.FindByID(ctx, menu.ID, repository.QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, bumped.Version)
	assert.Equal(t, entity.StatusPublished, bumped.Status)

	missing := &entity.Menu{ID: uuid.New(), Name: "Ghost"}
	assert.ErrorIs(t, repo.Update(ctx, missing, 1), repository.ErrMenuNotFound)
}

func TestReviewRepository_UniquenessAndRatings(t *testing.T) {
	db := sqlitetest.New(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()
	restaurant := seedRestaurant(t, db, uuid.New())
	userID := uuid.New()

	review := &entity.Review{RestaurantID: restaurant.ID, UserID: userID, Rating: 4, Lifecycle: entity.NewLifecycle(entity.StatusPublished)}
	require.NoError(t, repo.Create(ctx, review))

	duplicate := &entity.Review{RestaurantID: restaurant.ID, UserID: userID, Rating: 2, Lifecycle: entity.NewLifecycle(entity.StatusPublished)}
	assert.ErrorIs(t, repo.Create(ctx, duplicate), repository.ErrDuplicateReview)

	other := &entity.Review{RestaurantID: restaurant.ID, UserID: uuid.New(), Rating: 2, Lifecycle: entity.NewLifecycle(entity.StatusPublished)}
	require.NoError(t, repo.Create(ctx, other))

	ratings, err := repo.ListActiveRatings(ctx, restaurant.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{4, 2}, ratings)

	expected := other.Lifecycle
	other.SoftDelete(uuid.New(), time.Now().UTC())
	require.NoError(t, repo.SaveLifecycle(ctx, repository.LifecycleChange{ID: other.ID, Expected: expected, State: other.Lifecycle}))

	ratings, err = repo.ListActiveRatings(ctx, restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, ratings)

	list, total, err := repo.ListByRestaurant(ctx, restaurant.ID, repository.QueryOptions{IncludeInactive: true}, repository.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)
}

func TestAuditRepository_AppendQueryPurge(t *testing.T) {
	db := sqlitetest.New(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	entityID := uuid.New()
	now := time.Now().UTC()
	old := &entity.AuditEntry{
		EntityType: entity.EntityTypeMenu,
		EntityID:   &entityID,
		Action:     entity.AuditActionCreate,
		After:      map[string]any{"name": "Ramen"},
		CreatedAt:  now.Add(-200 * 24 * time.Hour),
		ExpiresAt:  now.Add(-20 * 24 * time.Hour),
	}
	recent := &entity.AuditEntry{
		EntityType: entity.EntityTypeMenu,
		EntityID:   &entityID,
		Action:     entity.AuditActionUpdate,
		Changes:    map[string]entity.FieldChange{"name": {Old: "Ramen", New: "Udon"}},
		CreatedAt:  now,
		ExpiresAt:  now.Add(entity.AuditRetention),
	}
	require.NoError(t, repo.Append(ctx, old))
	require.NoError(t, repo.Append(ctx, recent))

	entries, total, err := repo.Query(ctx, repository.AuditFilter{EntityID: &entityID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.AuditActionUpdate, entries[0].Action)
	assert.Equal(t, "Udon", entries[0].Changes["name"].New)
	assert.Equal(t, "Ramen", entries[1].After["name"])

	entries, total, err = repo.Query(ctx, repository.AuditFilter{Action: entity.AuditActionCreate})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, entries, 1)

	purged, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, total, err = repo.Query(ctx, repository.AuditFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestAuditRepository_FailedAppendDoesNotPoisonTransaction(t *testing.T) {
	db := sqlitetest.New(t)
	tm := NewTransactionManager(db, nil)
	ctx := context.Background()

	entry := &entity.AuditEntry{EntityType: entity.EntityTypeUser, Action: entity.AuditActionLogin, CreatedAt: time.Now().UTC()}
	require.NoError(t, NewAuditRepository(db).Append(ctx, entry))

	var restaurantID uuid.UUID
	err := tm.Execute(ctx, func(repos repository.RepositoryFactory) error {
		restaurant := &entity.Restaurant{OwnerID: uuid.New(), Name: "Tx Diner", Lifecycle: entity.NewLifecycle(entity.StatusDraft)}
		if err := repos.NewRestaurantRepository().Create(ctx, restaurant); err != nil {
			return err
		}
		restaurantID = restaurant.ID

		// Same primary key: the insert fails inside its savepoint.
		dup := *entry
		assert.Error(t, repos.NewAuditRepository().Append(ctx, &dup))

		return repos.NewRestaurantRepository().UpdateRatingSummary(ctx, restaurant.ID, entity.RatingSummary{Count: 1, Average: 5})
	})
	require.NoError(t, err)

	found, err := NewRestaurantRepository(db).FindByID(ctx, restaurantID, repository.QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, found.Rating.Count)
}

func TestLifecycleTable_SaveLifecycleMissingRow(t *testing.T) {
	db := sqlitetest.New(t)

	draft := entity.NewLifecycle(entity.StatusDraft)
	err := NewReviewRepository(db).SaveLifecycle(context.Background(), repository.LifecycleChange{ID: uuid.New(), Expected: draft, State: draft})
	assert.ErrorIs(t, err, repository.ErrReviewNotFound)

	err = NewMenuRepository(db).HardDelete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrMenuNotFound)
}

func TestMenuRepository_StaleLifecycleWriteKeepsDeletion(t *testing.T) {
	db := sqlitetest.New(t)
	repo := NewMenuRepository(db)
	ctx := context.Background()
	restaurant := seedRestaurant(t, db, uuid.New())

	menu := &entity.Menu{RestaurantID: restaurant.ID, Name: "Gyoza", PriceCents: 600, Lifecycle: entity.NewLifecycle(entity.StatusDraft)}
	require.NoError(t, repo.Create(ctx, menu))

	// Two writers read the same revision.
	deleter, err := repo.FindByID(ctx, menu.ID, repository.QueryOptions{})
	require.NoError(t, err)
	publisher, err := repo.FindByID(ctx, menu.ID, repository.QueryOptions{})
	require.NoError(t, err)

	expected := deleter.Lifecycle
	require.True(t, deleter.SoftDelete(uuid.New(), time.Now().UTC()))
	require.NoError(t, repo.SaveLifecycle(ctx, repository.LifecycleChange{ID: deleter.ID, Expected: expected, State: deleter.Lifecycle, Version: deleter.Version}))

	expected = publisher.Lifecycle
	publisher.SetStatus(entity.StatusPublished)
	err = repo.SaveLifecycle(ctx, repository.LifecycleChange{ID: publisher.ID, Expected: expected, State: publisher.Lifecycle, Version: publisher.Version})
	assert.ErrorIs(t, err, repository.ErrVersionConflict)

	_, err = repo.FindByID(ctx, menu.ID, repository.QueryOptions{})
	assert.ErrorIs(t, err, repository.ErrMenuNotFound)

	stored, err := repo.FindByID(ctx, menu.ID, repository.QueryOptions{IncludeInactive: true})
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.Equal(t, entity.StatusDraft, stored.Status)
	assert.Equal(t, 2, stored.Version)
}

func TestRestaurantRepository_StaleLifecycleWrite(t *testing.T) {
	db := sqlitetest.New(t)
	repo := NewRestaurantRepository(db)
	ctx := context.Background()

	restaurant := seedRestaurant(t, db, uuid.New())
	stale := *restaurant

	expected := restaurant.Lifecycle
	require.True(t, restaurant.SoftDelete(uuid.New(), time.Now().UTC()))
	require.NoError(t, repo.SaveLifecycle(ctx, repository.LifecycleChange{ID: restaurant.ID, Expected: expected, State: restaurant.Lifecycle}))

	expected = stale.Lifecycle
	stale.SetStatus(entity.StatusDraft)
	err := repo.SaveLifecycle(ctx, repository.LifecycleChange{ID: stale.ID, Expected: expected, State: stale.Lifecycle})
	assert.ErrorIs(t, err, repository.ErrStaleLifecycle)

	stored, err := repo.FindByID(ctx, restaurant.ID, repository.QueryOptions{IncludeInactive: true})
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.Equal(t, entity.StatusPublished, stored.Status)
}

func TestRestaurantRepository_LockForUpdate(t *testing.T) {
	db := sqlitetest.New(t)
	repo := NewRestaurantRepository(db)
	ctx := context.Background()

	restaurant := seedRestaurant(t, db, uuid.New())

	locked, err := repo.LockForUpdate(ctx, restaurant.ID, repository.QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, restaurant.ID, locked.ID)

	_, err = repo.LockForUpdate(ctx, uuid.New(), repository.QueryOptions{})
	assert.ErrorIs(t, err, repository.ErrRestaurantNotFound)

	expected := restaurant.Lifecycle
	require.True(t, restaurant.SoftDelete(uuid.New(), time.Now().UTC()))
	require.NoError(t, repo.SaveLifecycle(ctx, repository.LifecycleChange{ID: restaurant.ID, Expected: expected, State: restaurant.Lifecycle}))

	_, err = repo.LockForUpdate(ctx, restaurant.ID, repository.QueryOptions{})
	assert.ErrorIs(t, err, repository.ErrRestaurantNotFound)

	locked, err = repo.LockForUpdate(ctx, restaurant.ID, repository.QueryOptions{IncludeInactive: true})
	require.NoError(t, err)
	assert.False(t, locked.IsActive)
}
