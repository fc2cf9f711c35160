package users

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"hotel/internal/domain"
	"hotel/internal/modules/access"
	"hotel/internal/pkg/password"
	"hotel/internal/pkg/storage"
	"hotel/internal/pkg/validator"
	"hotel/internal/repository"
	"hotel/internal/testfixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	users   *Service
	groups  *GroupService
	avatars *AvatarService
	files   *storage.Local
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testfixtures.NewDB(t)
	repo := repository.NewUserRepository(db)
	files := storage.NewLocal(t.TempDir(), "/media")
	avatars := NewAvatarService(repo, files, 400)
	avatars.loggerf = func(string, ...interface{}) {}
	return fixture{
		db:      db,
		users:   NewService(repo, avatars),
		groups:  NewGroupService(repository.NewGroupRepository(db)),
		avatars: avatars,
		files:   files,
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func boolPtr(b bool) *bool { return &b }

func TestCreate_HashesPasswordAndIgnoresFlagsForRegularActor(t *testing.T) {
	f := newFixture(t)
	actor := access.NewActor(1, "clerk@hotel.test", true, false, "add_user")

	u, err := f.users.Create(context.Background(), actor, CreateUserRequest{
		Email:       " New@Hotel.test",
		Password:    "Gr8-night-audit",
		IsStaff:     boolPtr(true),
		IsSuperuser: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "new@hotel.test", u.Email)
	assert.False(t, u.IsStaff)
	assert.False(t, u.IsSuperuser)
	assert.True(t, u.IsActive)
	assert.True(t, password.Check(u.PasswordHash, "Gr8-night-audit"))
}

func TestCreate_SuperuserMayGrantFlags(t *testing.T) {
	f := newFixture(t)
	g := domain.Group{Name: "Managers"}
	require.NoError(t, f.db.Create(&g).Error)

	u, err := f.users.Create(context.Background(), access.NewActor(1, "root@hotel.test", true, true), CreateUserRequest{
		Email:       "boss@hotel.test",
		Password:    "Gr8-night-audit",
		IsStaff:     boolPtr(true),
		IsSuperuser: boolPtr(true),
		IsActive:    boolPtr(false),
		GroupIDs:    []int64{g.ID},
	})
	require.NoError(t, err)
	assert.True(t, u.IsStaff)
	assert.True(t, u.IsSuperuser)
	assert.False(t, u.IsActive)
	require.Len(t, u.Groups, 1)
	assert.Equal(t, g.ID, u.Groups[0].ID)

	var stored domain.User
	require.NoError(t, f.db.First(&stored, u.ID).Error)
	assert.False(t, stored.IsActive)
}

func TestCreate_InactiveWithoutGrantRights(t *testing.T) {
	f := newFixture(t)

	u, err := f.users.Create(context.Background(), nil, CreateUserRequest{
		Email:    "paused@hotel.test",
		Password: "Gr8-night-audit",
		IsActive: boolPtr(false),
	})
	require.NoError(t, err)
	assert.False(t, u.IsActive)

	var active bool
	require.NoError(t, f.db.Model(&domain.User{}).Where("id = ?", u.ID).Pluck("is_active", &active).Error)
	assert.False(t, active)
}

func TestCreate_ValidationErrors(t *testing.T) {
	f := newFixture(t)
	testfixtures.User(t, f.db, testfixtures.WithEmail("taken@hotel.test"))

	_, err := f.users.Create(context.Background(), nil, CreateUserRequest{Email: "taken@hotel.test", Password: "12345678"})
	var errs validator.FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, MsgEmailTaken, errs["email"])
	assert.Contains(t, errs["password"], "numeric")

	_, err = f.users.Create(context.Background(), nil, CreateUserRequest{Email: "fresh@hotel.test", Password: "Gr8-night-audit", GroupIDs: []int64{999}})
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "group_ids")
}

func TestUpdate_PartialOverlay(t *testing.T) {
	f := newFixture(t)
	u := testfixtures.User(t, f.db)
	name := "Renamed"

	got, err := f.users.Update(context.Background(), access.NewActor(9, "x@hotel.test", false, false), u.ID, UpdateUserRequest{
		FirstName:   &name,
		IsSuperuser: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.FirstName)
	assert.Equal(t, u.LastName, got.LastName)
	assert.False(t, got.IsSuperuser)

	_, err = f.users.Update(context.Background(), nil, u.ID+100, UpdateUserRequest{FirstName: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	u := testfixtures.User(t, f.db)

	err := f.users.ChangePassword(context.Background(), u.ID, "wrong", "password")
	var errs validator.FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "old_password")
	assert.Contains(t, errs, "new_password")

	require.NoError(t, f.users.ChangePassword(context.Background(), u.ID, testfixtures.Password, "Fresh-Linen-42"))
	got, err := f.users.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, password.Check(got.PasswordHash, "Fresh-Linen-42"))
}

func TestSoftDeleteRestoreHardDelete(t *testing.T) {
	f := newFixture(t)
	u := testfixtures.User(t, f.db)
	ctx := context.Background()

	assert.ErrorIs(t, f.users.Restore(ctx, u.ID), ErrNotDeleted)
	require.NoError(t, f.users.Delete(ctx, u.ID))

	deleted, total, err := f.users.List(ctx, true, repository.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, u.ID, deleted[0].ID)

	require.NoError(t, f.users.Restore(ctx, u.ID))
	require.NoError(t, f.users.HardDelete(ctx, u.ID))
	assert.ErrorIs(t, f.users.HardDelete(ctx, u.ID), ErrNotFound)
}

func TestAvatar_SetReplaceAndRemove(t *testing.T) {
	f := newFixture(t)
	u := testfixtures.User(t, f.db)
	ctx := context.Background()

	first, err := f.avatars.Set(ctx, u.ID, bytes.NewReader(pngBytes(t, 800, 600)))
	require.NoError(t, err)
	meta := first.AvatarMeta.Data()
	assert.Equal(t, "png", meta.Format)
	assert.Equal(t, 400, meta.Width)
	assert.Equal(t, 300, meta.Height)
	assert.True(t, f.files.Exists(first.Avatar))

	second, err := f.avatars.Set(ctx, u.ID, bytes.NewReader(pngBytes(t, 50, 50)))
	require.NoError(t, err)
	assert.False(t, f.files.Exists(first.Avatar))
	assert.True(t, f.files.Exists(second.Avatar))
	assert.Equal(t, 50, second.AvatarMeta.Data().Width)

	stored, err := f.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, second.Avatar, stored.Avatar)
	assert.Equal(t, "/media/"+second.Avatar, f.users.Present(stored).Avatar)

	require.NoError(t, f.users.Delete(ctx, u.ID))
	assert.True(t, f.files.Exists(second.Avatar))
	require.NoError(t, f.users.HardDelete(ctx, u.ID))
	assert.False(t, f.files.Exists(second.Avatar))
}

func TestAvatar_RejectsOtherFormats(t *testing.T) {
	f := newFixture(t)
	u := testfixtures.User(t, f.db)

	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, image.NewPaletted(image.Rect(0, 0, 4, 4), []color.Color{color.Black, color.White}), nil))

	_, err := f.avatars.Set(context.Background(), u.ID, &buf)
	var errs validator.FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, MsgUnsupportedImage, errs["avatar"])

	_, err = f.avatars.Set(context.Background(), u.ID, bytes.NewReader([]byte("not an image")))
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "avatar")
}

func TestGroups(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.groups.Create(ctx, GroupRequest{Name: "Reception", Permissions: []string{"view_booking", "add_booking"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"view_booking", "add_booking"}, NewGroupResponse(g).Permissions)

	_, err = f.groups.Create(ctx, GroupRequest{Name: "Reception"})
	var errs validator.FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, MsgGroupTaken, errs["name"])

	_, err = f.groups.Create(ctx, GroupRequest{Name: "Other", Permissions: []string{"teleport_guest"}})
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs["permissions"], "teleport_guest")

	updated, err := f.groups.Update(ctx, g.ID, GroupRequest{Name: "Front desk", Permissions: []string{"view_room"}})
	require.NoError(t, err)
	assert.Equal(t, "Front desk", updated.Name)
	assert.Equal(t, []string{"view_room"}, NewGroupResponse(updated).Permissions)

	require.NoError(t, f.groups.Delete(ctx, g.ID))
	require.NoError(t, f.groups.Restore(ctx, g.ID))
	require.NoError(t, f.groups.HardDelete(ctx, g.ID))
	_, err = f.groups.Get(ctx, g.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
