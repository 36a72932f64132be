package repository

import (
	"context"
	"errors"
	"time"

	"dossier-status-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("dossier no encontrado")

// Mongo implementation
type MongoDossierRepository struct {
	col *mongo.Collection
}

func NewMongoDossierRepository(db *mongo.Database) *MongoDossierRepository {
	return &MongoDossierRepository{col: db.Collection("dossiers")}
}

func (m *MongoDossierRepository) Save(ctx context.Context, d *model.Dossier) error {
	now := time.Now().UTC()

	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	filter := bson.M{"dossier_id": d.ID}
	update := bson.M{"$set": d}
	opts := options.Update().SetUpsert(true)
	_, err := m.col.UpdateOne(ctx, filter, update, opts)
	return err
}

func (m *MongoDossierRepository) FindByID(ctx context.Context, id string) (*model.Dossier, error) {
	var res model.Dossier
	err := m.col.FindOne(ctx, bson.M{"dossier_id": id}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

// FindRawByID devuelve el documento tal cual está en la colección, con los
// nombres de campo heredados incluidos; es la entrada del pipeline de
// enriquecimiento.
func (m *MongoDossierRepository) FindRawByID(ctx context.Context, id string) (map[string]any, error) {
	var res bson.M
	err := m.col.FindOne(ctx, bson.M{"dossier_id": id}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return res, err
}

func (m *MongoDossierRepository) FindAllRaw(ctx context.Context) ([]map[string]any, error) {
	return m.findRaw(ctx, bson.M{})
}

func (m *MongoDossierRepository) FindRawByStatus(ctx context.Context, status string) ([]map[string]any, error) {
	return m.findRaw(ctx, bson.M{"statut": status})
}

func (m *MongoDossierRepository) findRaw(ctx context.Context, filter bson.M) ([]map[string]any, error) {
	cur, err := m.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []map[string]any
	for cur.Next(ctx) {
		var v bson.M
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// UpdateStatus fija el estado nuevo y empuja el registro al historial en una
// sola operación. El historial es append-only: nunca se reescriben entradas.
func (m *MongoDossierRepository) UpdateStatus(ctx context.Context, id, status string, record model.StatusRecord) error {
	filter := bson.M{"dossier_id": id}

	update := bson.M{
		"$set": bson.M{
			"statut":     status,
			"updated_at": time.Now().UTC(),
		},
		"$push": bson.M{
			"history": record,
		},
	}

	res, err := m.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoDossierRepository) SetDeliverySchedule(ctx context.Context, id string, at time.Time, address, postalCode string) error {
	set := bson.M{
		"date_livraison_prevue": at,
		"updated_at":            time.Now().UTC(),
	}
	if address != "" {
		set["adresse_livraison"] = address
	}
	if postalCode != "" {
		set["code_postal_livraison"] = postalCode
	}

	res, err := m.col.UpdateOne(ctx, bson.M{"dossier_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoDossierRepository) SetDeliveryResult(ctx context.Context, id string, at time.Time, montant, paymentMode string) error {
	set := bson.M{
		"date_livraison_reelle": at,
		"updated_at":            time.Now().UTC(),
	}
	if montant != "" {
		set["montant_encaisse"] = montant
	}
	if paymentMode != "" {
		set["mode_paiement"] = paymentMode
	}

	res, err := m.col.UpdateOne(ctx, bson.M{"dossier_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
