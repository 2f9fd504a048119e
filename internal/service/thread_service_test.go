package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quorum/internal/models"
)

func TestThreadService_CreateThread_Validation(t *testing.T) {
	svc := NewThreadService(noopThreadRepo(), noopCommunityRepo(), neverAdmin)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateThreadInput
	}{
		{name: "missing title", in: CreateThreadInput{UserID: 1, CommunityID: 1, Content: "x"}},
		{name: "title too long", in: CreateThreadInput{UserID: 1, CommunityID: 1, Title: strings.Repeat("a", 301)}},
		{name: "content too long", in: CreateThreadInput{UserID: 1, CommunityID: 1, Title: "t", Content: strings.Repeat("a", 50001)}},
		{name: "missing community", in: CreateThreadInput{UserID: 1, Title: "t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateThread(ctx, tt.in)
			require.Error(t, err)
			assert.True(t, models.IsCode(err, models.CodeValidation))
		})
	}
}

func TestThreadService_CreateThread_UnknownCommunity(t *testing.T) {
	communities := noopCommunityRepo()
	communities.getByIDFn = func(_ context.Context, _ uint) (*models.Community, error) {
		return nil, models.NewNotFoundError("missing")
	}
	svc := NewThreadService(noopThreadRepo(), communities, neverAdmin)

	_, err := svc.CreateThread(context.Background(), CreateThreadInput{
		UserID: 1, CommunityID: 99, Title: "t",
	})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestThreadService_CreateThread_Success(t *testing.T) {
	threads := noopThreadRepo()
	threads.createFn = func(_ context.Context, thread *models.Thread) error {
		thread.ID = 5
		return nil
	}
	var fetchedID, fetchedUser uint
	threads.getByIDFn = func(_ context.Context, id, currentUserID uint) (*models.Thread, error) {
		fetchedID, fetchedUser = id, currentUserID
		return &models.Thread{ID: id, Title: "t"}, nil
	}
	svc := NewThreadService(threads, noopCommunityRepo(), neverAdmin)

	thread, err := svc.CreateThread(context.Background(), CreateThreadInput{
		UserID: 3, CommunityID: 1, Title: "t", Content: "body",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 5, thread.ID)
	assert.EqualValues(t, 5, fetchedID)
	assert.EqualValues(t, 3, fetchedUser)
}

func TestThreadService_ListThreads_NormalizesInputs(t *testing.T) {
	threads := noopThreadRepo()
	var gotSort string
	var gotLimit, gotOffset int
	threads.listFn = func(_ context.Context, sort string, limit, offset int, _ uint) ([]models.Thread, error) {
		gotSort, gotLimit, gotOffset = sort, limit, offset
		return nil, nil
	}
	svc := NewThreadService(threads, noopCommunityRepo(), neverAdmin)
	ctx := context.Background()

	_, err := svc.ListThreads(ctx, ListThreadsInput{Sort: "rising", Limit: 0, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, "new", gotSort)
	assert.Equal(t, defaultPageSize, gotLimit)
	assert.Equal(t, 0, gotOffset)

	_, err = svc.ListThreads(ctx, ListThreadsInput{Sort: "top", Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, "top", gotSort)
	assert.Equal(t, maxPageSize, gotLimit)
}

func TestThreadService_ListThreads_ByCommunity(t *testing.T) {
	threads := noopThreadRepo()
	var gotCommunity uint
	threads.listByCommunityFn = func(_ context.Context, communityID uint, _ string, _, _ int, _ uint) ([]models.Thread, error) {
		gotCommunity = communityID
		return []models.Thread{{ID: 1}}, nil
	}
	svc := NewThreadService(threads, noopCommunityRepo(), neverAdmin)

	got, err := svc.ListThreads(context.Background(), ListThreadsInput{CommunityID: 7})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.EqualValues(t, 7, gotCommunity)
}

func TestThreadService_DeleteThread_Authorization(t *testing.T) {
	newRepo := func() *threadRepoStub {
		threads := noopThreadRepo()
		threads.getByIDFn = func(_ context.Context, id, _ uint) (*models.Thread, error) {
			return &models.Thread{ID: id, UserID: 10}, nil
		}
		return threads
	}
	ctx := context.Background()

	// Author can delete.
	svc := NewThreadService(newRepo(), noopCommunityRepo(), neverAdmin)
	assert.NoError(t, svc.DeleteThread(ctx, 1, 10))

	// Stranger cannot.
	svc = NewThreadService(newRepo(), noopCommunityRepo(), neverAdmin)
	err := svc.DeleteThread(ctx, 1, 11)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))

	// Admin can.
	svc = NewThreadService(newRepo(), noopCommunityRepo(), alwaysAdmin)
	assert.NoError(t, svc.DeleteThread(ctx, 1, 11))
}

func TestCommentService_CreateComment(t *testing.T) {
	ctx := context.Background()

	t.Run("missing content", func(t *testing.T) {
		svc := NewCommentService(noopCommentRepo(), noopThreadRepo(), neverAdmin)
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, ThreadID: 1})
		require.Error(t, err)
		assert.True(t, models.IsCode(err, models.CodeValidation))
	})

	t.Run("thread missing", func(t *testing.T) {
		threads := noopThreadRepo()
		threads.existsFn = func(_ context.Context, _ uint) (bool, error) { return false, nil }
		svc := NewCommentService(noopCommentRepo(), threads, neverAdmin)
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, ThreadID: 1, Content: "hi"})
		require.Error(t, err)
		assert.True(t, models.IsCode(err, models.CodeNotFound))
	})

	t.Run("parent in different thread", func(t *testing.T) {
		comments := noopCommentRepo()
		comments.getByIDFn = func(_ context.Context, id, _ uint) (*models.Comment, error) {
			return &models.Comment{ID: id, ThreadID: 2}, nil
		}
		svc := NewCommentService(comments, noopThreadRepo(), neverAdmin)
		parent := uint(4)
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, ThreadID: 1, ParentID: &parent, Content: "hi"})
		require.Error(t, err)
		assert.True(t, models.IsCode(err, models.CodeValidation))
	})

	t.Run("success", func(t *testing.T) {
		comments := noopCommentRepo()
		comments.createFn = func(_ context.Context, comment *models.Comment) error {
			comment.ID = 8
			return nil
		}
		svc := NewCommentService(comments, noopThreadRepo(), neverAdmin)
		comment, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, ThreadID: 1, Content: "hi"})
		require.NoError(t, err)
		assert.EqualValues(t, 8, comment.ID)
	})
}

func TestCommentService_DeleteComment_Authorization(t *testing.T) {
	newRepo := func() *commentRepoStub {
		comments := noopCommentRepo()
		comments.getByIDFn = func(_ context.Context, id, _ uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 10, ThreadID: 1}, nil
		}
		return comments
	}
	ctx := context.Background()

	svc := NewCommentService(newRepo(), noopThreadRepo(), neverAdmin)
	assert.NoError(t, svc.DeleteComment(ctx, 1, 10))

	svc = NewCommentService(newRepo(), noopThreadRepo(), neverAdmin)
	err := svc.DeleteComment(ctx, 1, 11)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))

	svc = NewCommentService(newRepo(), noopThreadRepo(), alwaysAdmin)
	assert.NoError(t, svc.DeleteComment(ctx, 1, 11))
}

func TestCommunityService_CreateCommunity(t *testing.T) {
	ctx := context.Background()

	t.Run("derives slug from name", func(t *testing.T) {
		communities := noopCommunityRepo()
		var created *models.Community
		communities.createFn = func(_ context.Context, community *models.Community) error {
			created = community
			return nil
		}
		svc := NewCommunityService(communities)
		_, err := svc.CreateCommunity(ctx, CreateCommunityInput{UserID: 1, Name: "Go Programming!"})
		require.NoError(t, err)
		assert.Equal(t, "go-programming", created.Slug)
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		communities := noopCommunityRepo()
		communities.getBySlugFn = func(_ context.Context, slug string) (*models.Community, error) {
			return &models.Community{Slug: slug}, nil
		}
		svc := NewCommunityService(communities)
		_, err := svc.CreateCommunity(ctx, CreateCommunityInput{UserID: 1, Name: "Go"})
		require.Error(t, err)
		assert.True(t, models.IsCode(err, models.CodeConflict))
	})

	t.Run("rejects bad explicit slug", func(t *testing.T) {
		svc := NewCommunityService(noopCommunityRepo())
		_, err := svc.CreateCommunity(ctx, CreateCommunityInput{UserID: 1, Name: "Go", Slug: "Not A Slug"})
		require.Error(t, err)
		assert.True(t, models.IsCode(err, models.CodeValidation))
	})
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "go-programming", Slugify("  Go Programming!  "))
	assert.Equal(t, "c-and-c", Slugify("C and C++"))
	assert.Equal(t, "already-fine", Slugify("already-fine"))
}
