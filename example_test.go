package lattice_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/lattice"
	"github.com/hupe1980/lattice/blobstore"
	"github.com/hupe1980/lattice/index"
	"github.com/hupe1980/lattice/record"
)

// Example demonstrates creating a collection, inserting records and querying.
func Example() {
	db := lattice.New("example")

	db.CreateCollection("users", record.Schema{
		"name": record.KindString,
		"age":  record.KindInt,
	})
	users, _ := db.Collection("users")

	for _, u := range []struct {
		name string
		age  int64
	}{
		{"alice", 30},
		{"bob", 25},
		{"carol", 35},
	} {
		if _, err := users.Insert(record.Record{
			"name": record.String(u.name),
			"age":  record.Int(u.age),
		}); err != nil {
			log.Fatal(err)
		}
	}

	results := users.Find(index.Conditions{
		"age": index.Range(record.Int(28), record.Int(40)),
	}, lattice.ModeAnd)
	for _, rec := range results {
		name, _ := rec["name"].AsString()
		fmt.Println(name)
	}
	// Output:
	// alice
	// carol
}

// Example_schemaEvolution demonstrates migrating a collection to a new schema.
func Example_schemaEvolution() {
	db := lattice.New("example")
	db.CreateCollection("items", record.Schema{"count": record.KindInt})
	items, _ := db.Collection("items")

	if _, err := items.Insert(record.Record{"count": record.Int(7)}); err != nil {
		log.Fatal(err)
	}

	// Widen count to float and migrate the stored record.
	info, err := db.UpdateCollectionSchema("items", record.Schema{"count": record.KindFloat}, true)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("compatible:", info.Compatible)

	rec, _ := items.FindOne(nil)
	f, _ := rec["count"].AsFloat64()
	fmt.Println("count:", f)
	// Output:
	// compatible: true
	// count: 7
}

// Example_saveLoad demonstrates snapshot persistence.
func Example_saveLoad() {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	db := lattice.New("example", lattice.WithBlobStore(store))
	db.CreateCollection("users", record.Schema{"name": record.KindString})
	users, _ := db.Collection("users")
	if _, err := users.Insert(record.Record{"name": record.String("alice")}); err != nil {
		log.Fatal(err)
	}

	if err := db.Save(ctx, "example.lattice"); err != nil {
		log.Fatal(err)
	}

	restored := lattice.New("restored", lattice.WithBlobStore(store))
	if err := restored.Load(ctx, "example.lattice"); err != nil {
		log.Fatal(err)
	}

	col, _ := restored.Collection("users")
	fmt.Println("records:", col.Len())
	// Output: records: 1
}
