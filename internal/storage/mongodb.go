// internal/storage/mongodb.go
package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/valpere/JournalScrapexter/pkg/types"
)

// mongoStore implements Store on a MongoDB collection, keyed by
// article URL through a unique index.
type mongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to MongoDB and prepares the article collection.
func NewMongoStore(ctx context.Context, dsn, database, collection string) (Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("MongoDB connection string is required")
	}
	if database == "" {
		return nil, fmt.Errorf("MongoDB database name is required")
	}
	if collection == "" {
		collection = "articles"
	}

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(connectCtx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	store := &mongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}

	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "url", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := store.collection.Indexes().CreateOne(connectCtx, index); err != nil {
		client.Disconnect(connectCtx)
		return nil, fmt.Errorf("failed to create URL index: %w", err)
	}

	return store, nil
}

func articleDocument(record *types.ArticleRecord) bson.M {
	return bson.M{
		"url":               record.URL,
		"journal_name":      record.JournalName,
		"paper_title":       record.PaperTitle,
		"authors":           record.Authors,
		"year":              record.Year,
		"month":             record.Month,
		"volume_issue":      record.VolumeIssue,
		"article_type":      record.ArticleType,
		"page_range":        record.PageRange,
		"abstract":          record.Abstract,
		"keywords":          record.Keywords,
		"raw_doi":           record.RawDOI,
		"doi_url":           record.DOIURL,
		"apa_citation":      record.APACitation,
		"ieee_citation":     record.IEEECitation,
		"validation_remark": string(record.ValidationRemark),
		"last_validated":    record.LastValidated,
	}
}

func documentArticle(doc bson.M) types.ArticleRecord {
	str := func(key string) string {
		if value, ok := doc[key].(string); ok {
			return value
		}
		return ""
	}
	return types.ArticleRecord{
		URL:              str("url"),
		JournalName:      str("journal_name"),
		PaperTitle:       str("paper_title"),
		Authors:          str("authors"),
		Year:             str("year"),
		Month:            str("month"),
		VolumeIssue:      str("volume_issue"),
		ArticleType:      str("article_type"),
		PageRange:        str("page_range"),
		Abstract:         str("abstract"),
		Keywords:         str("keywords"),
		RawDOI:           str("raw_doi"),
		DOIURL:           str("doi_url"),
		APACitation:      str("apa_citation"),
		IEEECitation:     str("ieee_citation"),
		ValidationRemark: types.ValidationRemark(str("validation_remark")),
		LastValidated:    str("last_validated"),
	}
}

func (s *mongoStore) UpsertArticle(ctx context.Context, record *types.ArticleRecord) error {
	if record == nil || record.URL == "" {
		return fmt.Errorf("article record requires a URL")
	}
	if record.ValidationRemark == "" {
		record.ValidationRemark = types.RemarkNotChecked
	}

	filter := bson.M{"url": record.URL}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection.ReplaceOne(ctx, filter, articleDocument(record), opts); err != nil {
		return fmt.Errorf("failed to upsert article %s: %w", record.URL, err)
	}
	return nil
}

func (s *mongoStore) findArticles(ctx context.Context, filter bson.M) ([]types.ArticleRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "url", Value: 1}})
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer cursor.Close(ctx)

	var records []types.ArticleRecord
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode article document: %w", err)
		}
		records = append(records, documentArticle(doc))
	}
	return records, cursor.Err()
}

func (s *mongoStore) AllArticles(ctx context.Context) ([]types.ArticleRecord, error) {
	return s.findArticles(ctx, bson.M{})
}

func (s *mongoStore) UncheckedArticles(ctx context.Context) ([]types.ArticleRecord, error) {
	return s.findArticles(ctx, bson.M{"validation_remark": string(types.RemarkNotChecked)})
}

func (s *mongoStore) ArticleURLs(ctx context.Context) (map[string]bool, error) {
	opts := options.Find().SetProjection(bson.M{"url": 1})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query article URLs: %w", err)
	}
	defer cursor.Close(ctx)

	urls := make(map[string]bool)
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode URL document: %w", err)
		}
		if url, ok := doc["url"].(string); ok {
			urls[url] = true
		}
	}
	return urls, cursor.Err()
}

func (s *mongoStore) UpdateRemark(ctx context.Context, url string, remark types.ValidationRemark, date string) error {
	if !remark.IsValid() {
		return fmt.Errorf("invalid validation remark %q", remark)
	}
	update := bson.M{"$set": bson.M{
		"validation_remark": string(remark),
		"last_validated":    date,
	}}
	result, err := s.collection.UpdateOne(ctx, bson.M{"url": url}, update)
	if err != nil {
		return fmt.Errorf("failed to update remark for %s: %w", url, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no stored article with URL %s", url)
	}
	return nil
}

func (s *mongoStore) DeleteByURLs(ctx context.Context, urls []string) (int64, error) {
	if len(urls) == 0 {
		return 0, nil
	}
	result, err := s.collection.DeleteMany(ctx, bson.M{"url": bson.M{"$in": urls}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete articles: %w", err)
	}
	return result.DeletedCount, nil
}

func (s *mongoStore) DeleteAll(ctx context.Context) (int64, error) {
	result, err := s.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to delete articles: %w", err)
	}
	return result.DeletedCount, nil
}

func (s *mongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
