// Package files locates the source CSV tables of a marketplace export,
// maps their file names to logical table names and prepares the paths
// exports are written to.
//
// Example usage:
//
//	discovery := files.NewDiscovery("/srv/olist")
//	csvFiles, err := discovery.FindCSVFiles("data/csv")
//	for _, f := range csvFiles {
//	    name := files.TableName(f.Name, "olist_", []string{"_dataset.csv", ".csv"})
//	    // olist_order_items_dataset.csv -> order_items
//	}
//
//	out, err := files.NewManager("").PrepareOutput("reports/training.csv")
package files
