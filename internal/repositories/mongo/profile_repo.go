package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/devconnector/internal/models"
	"github.com/yoockh/devconnector/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	// Upsert applies f to the owner's profile, creating it if absent, in one atomic call.
	Upsert(ctx context.Context, userID string, f models.ProfileFields) (*models.Profile, error)
	Save(ctx context.Context, p *models.Profile) error
	DeleteByUserID(ctx context.Context, userID string) error
}

type profileRepo struct {
	col *mongo.Collection
	now func() time.Time
}

func NewProfileRepo(db *mongo.Database) ProfileRepository {
	return &profileRepo{col: db.Collection("profiles"), now: time.Now}
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	err := r.col.FindOne(ctx, bson.M{"user": userID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.EnsureLists()
	return &p, nil
}

func (r *profileRepo) List(ctx context.Context) ([]models.Profile, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Profile{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].EnsureLists()
	}
	return out, nil
}

func (r *profileRepo) Upsert(ctx context.Context, userID string, f models.ProfileFields) (*models.Profile, error) {
	update := upsertUpdate(f, r.now().UTC())
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var p models.Profile
	err := r.col.FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).Decode(&p)
	if mongo.IsDuplicateKeyError(err) {
		// a concurrent insert won on the unique index; the same update now matches it
		err = r.col.FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).Decode(&p)
	}
	if err != nil {
		return nil, err
	}
	p.EnsureLists()
	return &p, nil
}

func (r *profileRepo) Save(ctx context.Context, p *models.Profile) error {
	p.EnsureLists()
	p.UpdatedAt = r.now().UTC()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *profileRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"user": userID})
	return err
}

// upsertUpdate builds the $set / $setOnInsert document for a create-or-update.
// Social links are set by dotted path so omitted links keep their stored value.
func upsertUpdate(f models.ProfileFields, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	setString := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}

	setString("company", f.Company)
	setString("website", f.Website)
	setString("location", f.Location)
	setString("bio", f.Bio)
	setString("status", f.Status)
	setString("githubusername", f.GithubUsername)
	if f.Skills != nil {
		set["skills"] = f.Skills
	}

	social := map[string]*string{
		"social.youtube":   f.YouTube,
		"social.facebook":  f.Facebook,
		"social.twitter":   f.Twitter,
		"social.instagram": f.Instagram,
		"social.linkedin":  f.LinkedIn,
	}
	hasSocial := false
	for key, v := range social {
		if v != nil {
			set[key] = *v
			hasSocial = true
		}
	}

	onInsert := bson.M{
		"created_at": now,
		"experience": bson.A{},
		"education":  bson.A{},
	}
	if !hasSocial {
		onInsert["social"] = bson.M{}
	}
	if f.Skills == nil {
		onInsert["skills"] = bson.A{}
	}

	return bson.M{"$set": set, "$setOnInsert": onInsert}
}
