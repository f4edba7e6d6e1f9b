package recommend

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
)

// DatasetProduct is one row of the skincare products dataset. A sample of
// these is embedded in the recommendation prompt so the model picks from
// real, purchasable products.
type DatasetProduct struct {
	Name  string
	URL   string
	Type  string
	Price float64
}

// LoadDataset reads the products CSV. The header must contain product_name,
// product_url, product_type and price columns (any order).
func LoadDataset(path string) ([]DatasetProduct, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("dataset is empty")
	}

	cols := map[string]int{}
	for i, name := range records[0] {
		cols[name] = i
	}
	for _, required := range []string{"product_name", "product_url", "product_type", "price"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("dataset missing column %q", required)
		}
	}

	var products []DatasetProduct
	for _, rec := range records[1:] {
		get := func(col string) string {
			idx := cols[col]
			if idx >= len(rec) {
				return ""
			}
			return rec[idx]
		}

		price, _ := strconv.ParseFloat(get("price"), 64)
		products = append(products, DatasetProduct{
			Name:  get("product_name"),
			URL:   get("product_url"),
			Type:  get("product_type"),
			Price: price,
		})
	}

	return products, nil
}

// SampleDataset returns up to n randomly chosen products. The prompt stays
// a manageable size this way.
func SampleDataset(products []DatasetProduct, n int) []DatasetProduct {
	if len(products) <= n {
		return products
	}
	idx := rand.Perm(len(products))[:n]
	sample := make([]DatasetProduct, 0, n)
	for _, i := range idx {
		sample = append(sample, products[i])
	}
	return sample
}

// datasetCSV renders the sample back to CSV for prompt embedding. Product
// names routinely contain commas, so this goes through a proper writer.
func datasetCSV(products []DatasetProduct) string {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	w.Write([]string{"product_name", "product_url", "product_type", "price"})
	for _, p := range products {
		w.Write([]string{p.Name, p.URL, p.Type, strconv.FormatFloat(p.Price, 'f', 2, 64)})
	}
	w.Flush()

	return buf.String()
}
