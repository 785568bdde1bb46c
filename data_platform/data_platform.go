package dataplatform

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/cepro/gridbuilder/network"
	"github.com/cepro/gridbuilder/repository"

	supa "github.com/nedpals/supabase-go"
)

// uploadChunkLimit defines how many records we can upload in one supabase HTTP request
const uploadChunkLimit = 100

// DataPlatform handles the export of built network records to Supabase.
// Records are buffered on disk in a SQLite database before being uploaded,
// so a failed upload can be retried on a later run.
type DataPlatform struct {
	repository *repository.Repository
	supaClient *supa.Client
}

func New(supabaseUrl string, supabaseKey string, schema string, bufferRepositoryFilename string) (*DataPlatform, error) {

	supaClient := supa.CreateClient(supabaseUrl, supabaseKey)
	supaClient.DB.AddHeader("Accept-Profile", schema)
	supaClient.DB.AddHeader("Content-Profile", schema)

	repository, err := repository.New(bufferRepositoryFilename)
	if err != nil {
		return nil, fmt.Errorf("create repository: %w", err)
	}

	return &DataPlatform{
		repository: repository,
		supaClient: supaClient,
	}, nil
}

// Export persists the network's built records to the buffer and then drains
// the buffer into Supabase, including any records left behind by earlier
// failed runs.
func (d *DataPlatform) Export(ctx context.Context, n *network.Network) error {
	if err := d.buffer(n); err != nil {
		return fmt.Errorf("buffer records: %w", err)
	}
	return d.drain(ctx)
}

// buffer persists every built record of the network to the SQLite buffer.
func (d *DataPlatform) buffer(n *network.Network) error {
	for _, c := range n.Carriers {
		if err := d.repository.AddCarrier(c); err != nil {
			return fmt.Errorf("persist carrier %q: %w", c.Name, err)
		}
	}
	for _, g := range n.Generators {
		if err := d.repository.AddGenerator(g); err != nil {
			return fmt.Errorf("persist generator %q: %w", g.Name, err)
		}
	}
	for _, s := range n.StorageUnits {
		if err := d.repository.AddStorageUnit(s); err != nil {
			return fmt.Errorf("persist storage unit %q: %w", s.Name, err)
		}
	}
	for _, l := range n.Loads {
		if err := d.repository.AddLoad(l); err != nil {
			return fmt.Errorf("persist load %q: %w", l.Name, err)
		}
	}
	slog.Debug("Buffered network records",
		"carriers", len(n.Carriers),
		"generators", len(n.Generators),
		"storage_units", len(n.StorageUnits),
		"loads", len(n.Loads),
	)
	return nil
}

// drain uploads the buffered records in chunks: first the records that have
// never been attempted, then one pass over records that already failed an
// upload at least once.
func (d *DataPlatform) drain(ctx context.Context) error {
	for _, fresh := range []bool{true, false} {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			uploaded, err := d.uploadChunks(fresh)
			if err != nil {
				return err
			}
			if uploaded == 0 || !fresh {
				break
			}
		}
	}
	return nil
}

// uploadChunks attempts one chunk of each record type, returning how many
// records were uploaded in total.
func (d *DataPlatform) uploadChunks(fresh bool) (int, error) {
	uploaded := 0

	carriers, err := d.repository.GetCarriers(uploadChunkLimit, fresh)
	if err != nil {
		return uploaded, fmt.Errorf("query buffered carriers: %w", err)
	}
	if len(carriers) > 0 {
		if err := d.handleRecords(carriers); err != nil {
			return uploaded, err
		}
		uploaded += len(carriers)
	}

	generators, err := d.repository.GetGenerators(uploadChunkLimit, fresh)
	if err != nil {
		return uploaded, fmt.Errorf("query buffered generators: %w", err)
	}
	if len(generators) > 0 {
		if err := d.handleRecords(generators); err != nil {
			return uploaded, err
		}
		uploaded += len(generators)
	}

	storageUnits, err := d.repository.GetStorageUnits(uploadChunkLimit, fresh)
	if err != nil {
		return uploaded, fmt.Errorf("query buffered storage units: %w", err)
	}
	if len(storageUnits) > 0 {
		if err := d.handleRecords(storageUnits); err != nil {
			return uploaded, err
		}
		uploaded += len(storageUnits)
	}

	loads, err := d.repository.GetLoads(uploadChunkLimit, fresh)
	if err != nil {
		return uploaded, fmt.Errorf("query buffered loads: %w", err)
	}
	if len(loads) > 0 {
		if err := d.handleRecords(loads); err != nil {
			return uploaded, err
		}
		uploaded += len(loads)
	}

	return uploaded, nil
}

// handleRecords attempts to upload the given records. If successful, it deletes the records from the database, if
// unsuccessful, it increments the 'upload attempt count' column and leaves the record in the database for another time.
func (d *DataPlatform) handleRecords(records interface{}) error {

	convertedRecords, tableName := getRecordsForSupabase(records)
	uploadErr := d.supaClient.DB.From(tableName).Insert(convertedRecords).Execute(nil)
	if uploadErr != nil {
		uploadErr := fmt.Errorf("upload failed: %w", uploadErr)
		errInc := d.repository.IncrementUploadAttemptCount(records)
		if errInc != nil {
			return fmt.Errorf("%w: increment upload attempt count: %w", uploadErr, errInc)
		}
		return uploadErr
	}

	deleteErr := d.repository.DeleteRecords(records)
	if deleteErr != nil {
		return fmt.Errorf("delete records (%+v): %w", records, deleteErr)
	}

	slog.Info("Uploaded records", "db_table", tableName, "db_records", reflect.ValueOf(records).Len())

	// TODO: really think through this logic to handle edge cases, e.g. where the upload succeeds but the delete doesn't

	return nil
}
