package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "members.users"
	created := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	mt.Run("find by email", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "u-1"},
			{Key: "name", Value: "alice"},
			{Key: "email", Value: "a@x.com"},
			{Key: "password", Value: "hash"},
			{Key: "created_at", Value: created},
		}))

		u, err := store.FindByEmail(context.Background(), "A@x.com")
		if err != nil {
			mt.Fatalf("find: %v", err)
		}
		if u.Name != "alice" || u.PasswordHash != "hash" || u.Role != RoleUser {
			mt.Fatalf("unexpected user: %#v", u)
		}
	})

	mt.Run("find missing", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := store.FindByEmail(context.Background(), "ghost@x.com")
		if !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("insert", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u, err := store.Insert(context.Background(), User{Name: "alice", Email: "a@x.com", PasswordHash: "hash"})
		if err != nil {
			mt.Fatalf("insert: %v", err)
		}
		if u.ID == "" || u.Role != RoleUser {
			mt.Fatalf("unexpected user: %#v", u)
		}
	})

	mt.Run("insert duplicate", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := store.Insert(context.Background(), User{Name: "alice", Email: "a@x.com"})
		if !errors.Is(err, ErrDuplicateEmail) {
			mt.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}
	})

	mt.Run("update role", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
		)

		if err := store.UpdateRole(context.Background(), "a@x.com", RoleAdmin); err != nil {
			mt.Fatalf("update: %v", err)
		}
		if err := store.UpdateRole(context.Background(), "ghost@x.com", RoleAdmin); !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("list", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "u-1"}, {Key: "name", Value: "alice"}, {Key: "email", Value: "a@x.com"}, {Key: "user_type", Value: "admin"}},
			bson.D{{Key: "_id", Value: "u-2"}, {Key: "name", Value: "bob"}, {Key: "email", Value: "b@x.com"}},
		))

		list, err := store.List(context.Background())
		if err != nil {
			mt.Fatalf("list: %v", err)
		}
		if len(list) != 2 || !list[0].IsAdmin() || list[1].Role != RoleUser {
			mt.Fatalf("unexpected list: %#v", list)
		}
	})
}
