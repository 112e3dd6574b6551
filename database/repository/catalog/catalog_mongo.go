package catalogRepo

import (
	"context"
	"fmt"

	"glowbook/database"
	"glowbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCatalogRepo reads service offerings and provider hours from the
// shared catalog collections.
type MongoCatalogRepo struct {
	serviceColl  *mongo.Collection
	providerColl *mongo.Collection
}

func NewMongoCatalogRepo() *MongoCatalogRepo {
	db := database.MongoClient.Database(database.DatabaseName)
	return &MongoCatalogRepo{
		serviceColl:  db.Collection("services"),
		providerColl: db.Collection("providers"),
	}
}

func (r *MongoCatalogRepo) GetService(ctx context.Context, serviceID string) (*models.ServiceOffering, error) {
	var svc models.ServiceOffering
	err := r.serviceColl.FindOne(ctx, bson.M{"id": serviceID}).Decode(&svc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("fetch service %s failed: %w", serviceID, err)
	}
	return &svc, nil
}

func (r *MongoCatalogRepo) GetProvider(ctx context.Context, providerID string) (*models.Provider, error) {
	var provider models.Provider
	err := r.providerColl.FindOne(ctx, bson.M{"id": providerID}).Decode(&provider)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("fetch provider %s failed: %w", providerID, err)
	}
	return &provider, nil
}
