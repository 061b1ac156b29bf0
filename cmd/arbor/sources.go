package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/dataset/csv"
	"github.com/pbanos/arbor/dataset/mongodataset"
	"github.com/pbanos/arbor/dataset/npy"
	"github.com/pbanos/arbor/dataset/pgdataset"
	"github.com/pbanos/arbor/dataset/sqlitedataset"
	"github.com/pbanos/arbor/feature"
	"github.com/pbanos/arbor/feature/yaml"
	"github.com/pbanos/arbor/tree"
	"github.com/pbanos/arbor/tree/json"
	"github.com/pbanos/arbor/tree/redisstore"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	mgo "gopkg.in/mgo.v2"
)

const mongoDialTimeout = 10 * time.Second

// metadataConfig holds the flags describing the features of a dataset.
type metadataConfig struct {
	metadataInput string
	label         string
}

func (mc *metadataConfig) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&(mc.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the features and the label of the data (defaults to all columns of the input but the label)")
	cmd.Flags().StringVarP(&(mc.label), "label", "l", "", "name of the column holding the labels (defaults to the one in the metadata or the last column)")
}

func (mc *metadataConfig) load(v *viper.Viper) {
	mc.metadataInput = v.GetString("metadata")
	mc.label = v.GetString("label")
}

/*
features returns the features and the label name read from the metadata file,
if any, with the label flag taking precedence over the metadata's label.
Both are empty if there is no metadata file and no label flag.
*/
func (mc *metadataConfig) features(logger zerolog.Logger) ([]feature.Feature, string, error) {
	if mc.metadataInput == "" {
		return nil, mc.label, nil
	}
	logger.Info().Str("path", mc.metadataInput).Msg("reading metadata")
	md, err := yaml.ReadMetadataFromFile(mc.metadataInput)
	if err != nil {
		return nil, "", err
	}
	label := md.Label
	if mc.label != "" {
		label = mc.label
	}
	return md.Features, label, nil
}

// dataConfig holds the flags pointing to a dataset.
type dataConfig struct {
	dataInput string
	table     string
}

func (dc *dataConfig) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&(dc.dataInput), "input", "i", "", "path to an input CSV (.csv), SQLite3 (.db), NumPy (.npy) file or a MongoDB (mongodb://) or PostgreSQL (postgres://) URL with the data (defaults to STDIN, interpreted as CSV)")
	cmd.Flags().StringVar(&(dc.table), "table", "samples", "name of the SQLite3 or PostgreSQL table or the MongoDB collection holding the data")
}

func (dc *dataConfig) load(v *viper.Viper) {
	dc.dataInput = v.GetString("input")
	dc.table = v.GetString("table")
}

/*
readTable reads the dataset the flags point to. Features and label are used
to pick and order its columns when given.
*/
func (dc *dataConfig) readTable(ctx context.Context, logger zerolog.Logger, features []feature.Feature, label string) (*dataset.Table, error) {
	input := dc.dataInput
	switch {
	case input == "":
		logger.Info().Msg("reading data from STDIN")
		return csv.ReadTable(os.Stdin, features, label)
	case strings.HasPrefix(input, "mongodb://"):
		return dc.readMongoTable(ctx, logger, features, label)
	case strings.HasPrefix(input, "postgres://"), strings.HasPrefix(input, "postgresql://"):
		return dc.readPostgresTable(ctx, logger, features, label)
	}
	switch strings.ToLower(filepath.Ext(input)) {
	case ".db", ".sqlite", ".sqlite3":
		return dc.readSqlite3Table(ctx, logger, features, label)
	case ".npy":
		logger.Info().Str("path", input).Msg("reading data from NumPy file")
		return npy.ReadTableFromFilePath(input, features)
	}
	logger.Info().Str("path", input).Msg("reading data from CSV file")
	return csv.ReadTableFromFilePath(input, features, label)
}

func (dc *dataConfig) readSqlite3Table(ctx context.Context, logger zerolog.Logger, features []feature.Feature, label string) (*dataset.Table, error) {
	logger.Info().Str("path", dc.dataInput).Str("table", dc.table).Msg("reading data from SQLite3 database")
	db, err := sqlitedataset.Open(dc.dataInput)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	if features == nil || label == "" {
		table, err := sqlitedataset.ColumnName(dc.table)
		if err != nil {
			return nil, err
		}
		return db.Query(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY rowid", table), features)
	}
	return db.ReadTable(ctx, dc.table, features, label)
}

func (dc *dataConfig) readPostgresTable(ctx context.Context, logger zerolog.Logger, features []feature.Feature, label string) (*dataset.Table, error) {
	logger.Info().Str("table", dc.table).Msg("reading data from PostgreSQL")
	db, err := pgdataset.Open(ctx, dc.dataInput)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	if features == nil || label == "" {
		table, err := pgdataset.ColumnName(dc.table)
		if err != nil {
			return nil, err
		}
		return db.Query(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY ctid", table), features)
	}
	return db.ReadTable(ctx, dc.table, features, label)
}

func (dc *dataConfig) readMongoTable(ctx context.Context, logger zerolog.Logger, features []feature.Feature, label string) (*dataset.Table, error) {
	if features == nil || label == "" {
		return nil, fmt.Errorf("reading from MongoDB requires metadata with the features and the label")
	}
	logger.Info().Str("collection", dc.table).Msg("reading data from MongoDB")
	session, err := mgo.DialWithTimeout(dc.dataInput, mongoDialTimeout)
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %v", err)
	}
	defer session.Close()
	c, err := mongodataset.Open(ctx, session, dc.table, features, label)
	if err != nil {
		return nil, err
	}
	return c.Read(ctx, nil)
}

// redisConfig holds the flags locating trees on redis.
type redisConfig struct {
	redisURL    string
	redisKey    string
	redisPrefix string
	redisTTL    time.Duration
}

func (rc *redisConfig) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&(rc.redisURL), "redis", "", "URL of a redis DB (redis://host:port/db) on which trees are stored")
	cmd.Flags().StringVar(&(rc.redisKey), "redis-key", "", "name under which the tree is stored on redis")
	cmd.Flags().StringVar(&(rc.redisPrefix), "redis-prefix", "arbor:trees", "prefix of the redis keys holding trees")
	cmd.Flags().DurationVar(&(rc.redisTTL), "redis-ttl", 0, "expiration of trees stored on redis (defaults to 0: never)")
}

func (rc *redisConfig) load(v *viper.Viper) {
	rc.redisURL = v.GetString("redis")
	rc.redisKey = v.GetString("redis-key")
	rc.redisPrefix = v.GetString("redis-prefix")
	rc.redisTTL = v.GetDuration("redis-ttl")
}

func (rc *redisConfig) enabled() bool {
	return rc.redisURL != ""
}

func (rc *redisConfig) Validate() error {
	if rc.enabled() && rc.redisKey == "" {
		return fmt.Errorf("redis-key flag is required along with the redis flag")
	}
	return nil
}

func (rc *redisConfig) store() (*redisstore.Store, error) {
	return redisstore.NewFromURL(rc.redisURL, rc.redisPrefix, rc.redisTTL)
}

// treeSourceConfig holds the flags locating a grown tree.
type treeSourceConfig struct {
	redisConfig
	treeInput string
}

func (tsc *treeSourceConfig) addFlags(cmd *cobra.Command) {
	tsc.redisConfig.addFlags(cmd)
	cmd.Flags().StringVarP(&(tsc.treeInput), "tree", "t", "", "path to a file from which the tree will be read and parsed as JSON (required unless the tree is read from redis)")
}

func (tsc *treeSourceConfig) load(v *viper.Viper) {
	tsc.redisConfig.load(v)
	tsc.treeInput = v.GetString("tree")
}

func (tsc *treeSourceConfig) Validate() error {
	if err := tsc.redisConfig.Validate(); err != nil {
		return err
	}
	if tsc.treeInput == "" && !tsc.enabled() {
		return fmt.Errorf("required tree flag was not set")
	}
	return nil
}

/*
loadTree reads the tree from the file or the redis key given on the flags,
the file taking precedence. It returns the tree and the name of its label.
*/
func (tsc *treeSourceConfig) loadTree(ctx context.Context, logger zerolog.Logger, features []feature.Feature, options ...tree.Option) (*tree.Tree, string, error) {
	if tsc.treeInput != "" {
		logger.Info().Str("path", tsc.treeInput).Msg("reading tree")
		f, err := os.Open(tsc.treeInput)
		if err != nil {
			return nil, "", fmt.Errorf("reading tree in JSON from %s: %v", tsc.treeInput, err)
		}
		defer f.Close()
		t, label, err := json.ReadJSONTree(json.NewNodeEncodeDecoder(), features, f, options...)
		if err != nil {
			return nil, "", fmt.Errorf("parsing tree in JSON from %s: %w", tsc.treeInput, err)
		}
		return t, label, nil
	}
	logger.Info().Str("key", tsc.redisKey).Msg("reading tree from redis")
	store, err := tsc.store()
	if err != nil {
		return nil, "", err
	}
	defer store.Close()
	return store.Load(ctx, tsc.redisKey, features, options...)
}
