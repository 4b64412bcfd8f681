package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/snappy"

	"github.com/pgEdge/pgedge-salesmetrics/internal/storage"
)

// fixture holds the CSV text of each dataset file keyed by file name.
type fixture map[string]string

func baseFixture() fixture {
	return fixture{
		"orders_dataset.csv": strings.Join([]string{
			"order_id,customer_id,order_status,order_purchase_timestamp,order_delivered_customer_date",
			"O1,C1,delivered,2022-03-10 10:00:00,2022-03-12 09:00:00",
			"O2,C2,delivered,2023-03-05 08:00:00,2023-03-15 08:00:00",
			"O3,C1,canceled,2023-04-01 12:00:00,",
			"O4,C3,delivered,2023-04-20 12:00:00,",
		}, "\n") + "\n",
		"order_items_dataset.csv": strings.Join([]string{
			"order_id,order_item_id,product_id,price",
			"O1,1,P1,100.00",
			"O2,1,P1,90.00",
			"O2,2,P2,60.00",
			"O3,1,P2,25.00",
			"O4,1,P3,10.50",
		}, "\n") + "\n",
		"products_dataset.csv": strings.Join([]string{
			"product_id,product_category_name",
			"P1,toys",
			"P2,books",
			"P3,",
		}, "\n") + "\n",
		"customers_dataset.csv": strings.Join([]string{
			"customer_id,customer_state",
			"C1,SP",
			"C2,rj",
		}, "\n") + "\n",
		"order_reviews_dataset.csv": strings.Join([]string{
			"review_id,order_id,review_score",
			"R1,O1,5",
			"R2,O2,3",
			"R3,O2,1",
		}, "\n") + "\n",
	}
}

// writeFixture writes f into a new temp directory. File names ending in
// .sz are snappy-framed.
func writeFixture(t *testing.T, f fixture) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range f {
		data := []byte(content)
		if strings.HasSuffix(name, CompressedSuffix) {
			var buf bytes.Buffer
			w := snappy.NewBufferedWriter(&buf)
			if _, err := w.Write(data); err != nil {
				t.Fatalf("Failed to compress %s: %v", name, err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Failed to close writer for %s: %v", name, err)
			}
			data = buf.Bytes()
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

func newTestLoader(t *testing.T, f fixture) *Loader {
	t.Helper()
	store, err := storage.NewLocalStorage(writeFixture(t, f))
	if err != nil {
		t.Fatalf("NewLocalStorage failed: %v", err)
	}
	return New(NewFileSource(store))
}
