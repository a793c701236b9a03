package services_test

import (
	"context"
	"testing"

	"github.com/AnshRaj112/campsite/internal/services"
	"github.com/AnshRaj112/campsite/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentCreate_AppendsReference(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, newUser("alice"), "Pine Ridge")
	bob := newUser("bob")
	ctx := context.Background()

	comment, err := f.commentSvc.Create(ctx, bob, c.ID.Hex(), "  great views  ")
	require.NoError(t, err)
	assert.Equal(t, "great views", comment.Text)
	assert.Equal(t, bob.ID, comment.Author.ID)
	assert.Equal(t, c.ID, comment.CampgroundID)

	stored, _ := f.campgrounds.Get(ctx, c.ID)
	require.Len(t, stored.Comments, 1)
	assert.Equal(t, comment.ID, stored.Comments[0])
}

func TestCommentCreate_Errors(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, newUser("alice"), "Pine Ridge")
	ctx := context.Background()

	_, err := f.commentSvc.Create(ctx, newUser("bob"), c.ID.Hex(), "   ")
	var verr *utils.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = f.commentSvc.Create(ctx, newUser("bob"), "64b7f0c2a1b2c3d4e5f60718", "hi")
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.Zero(t, f.comments.Len())
}

func TestCommentUpdateDelete_Ownership(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, newUser("alice"), "Pine Ridge")
	bob := newUser("bob")
	carol := newUser("carol")
	ctx := context.Background()

	comment, err := f.commentSvc.Create(ctx, bob, c.ID.Hex(), "original")
	require.NoError(t, err)

	_, err = f.commentSvc.Update(ctx, carol, c.ID.Hex(), comment.ID.Hex(), "vandalised")
	assert.ErrorIs(t, err, services.ErrForbidden)
	err = f.commentSvc.Delete(ctx, carol, c.ID.Hex(), comment.ID.Hex())
	assert.ErrorIs(t, err, services.ErrForbidden)

	stored, err := f.comments.Get(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", stored.Text)

	updated, err := f.commentSvc.Update(ctx, bob, c.ID.Hex(), comment.ID.Hex(), "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)

	admin := newUser("ranger")
	admin.IsAdmin = true
	require.NoError(t, f.commentSvc.Delete(ctx, admin, c.ID.Hex(), comment.ID.Hex()))

	_, err = f.comments.Get(ctx, comment.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
	cg, _ := f.campgrounds.Get(ctx, c.ID)
	assert.Empty(t, cg.Comments)
}

func TestCommentGetForEdit_WrongCampground(t *testing.T) {
	f := newFixture(t)
	alice := newUser("alice")
	a := f.create(t, alice, "Pine Ridge")
	b := f.create(t, alice, "Granite Peak")
	ctx := context.Background()

	comment, err := f.commentSvc.Create(ctx, alice, a.ID.Hex(), "hello")
	require.NoError(t, err)

	_, err = f.commentSvc.GetForEdit(ctx, alice, b.ID.Hex(), comment.ID.Hex())
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = f.commentSvc.GetForEdit(ctx, alice, a.ID.Hex(), "bogus")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
