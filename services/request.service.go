package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-service/domain"
)

type RequestService interface {
	Create(ctx context.Context, actor domain.Actor, req *domain.Request) (*domain.Request, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Request, error)
	Deadline(ctx context.Context, id primitive.ObjectID) (domain.Deadline, error)
	ListByRequester(ctx context.Context, actor domain.Actor) ([]*domain.Request, error)
	Cancel(ctx context.Context, actor domain.Actor, id primitive.ObjectID) (*domain.Request, error)
}
