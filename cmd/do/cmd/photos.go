package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/templui/campus-collector/internal/model"
	"github.com/templui/campus-collector/internal/repository"
	"github.com/templui/campus-collector/internal/storage"
)

func PhotosCmd() *cobra.Command {
	var limit int
	var offVocab bool

	photosCmd := &cobra.Command{
		Use:   "photos [collection]",
		Short: "Show catalog counts, or the latest photos of one collection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runPhotoCounts(cmd)
			}
			return runPhotoList(cmd, args[0], limit, offVocab)
		},
	}
	photosCmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of photos to list")
	photosCmd.Flags().BoolVar(&offVocab, "off-vocabulary", false, "only list photos with field values outside their vocabulary")

	return photosCmd
}

func runPhotoCounts(cmd *cobra.Command) error {
	_, store := openCatalog()
	defer store.Close()

	counts, err := repository.NewPhotoRepository(store).CountByCollection(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	total := 0
	for _, collection := range model.Collections {
		fmt.Fprintf(w, "%s\t%d\n", collection, counts[collection])
		total += counts[collection]
	}
	fmt.Fprintf(w, "total\t%d\n", total)
	return w.Flush()
}

func runPhotoList(cmd *cobra.Command, collection string, limit int, offVocab bool) error {
	if !model.IsCollection(collection) {
		return fmt.Errorf("unknown collection %q (one of %v)", collection, model.Collections)
	}

	cfg, store := openCatalog()
	defer store.Close()

	photoStorage, err := storage.New(cfg)
	if err != nil {
		return err
	}

	photos, err := repository.NewPhotoRepository(store).ByCollection(cmd.Context(), collection, limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUPLOADED\tORIGINAL\tSIZE\tLOCATION\tUNKNOWN\tURL")
	for _, p := range photos {
		unknown := p.OffVocabulary()
		if offVocab && len(unknown) == 0 {
			continue
		}
		unknownCol := "-"
		if len(unknown) > 0 {
			unknownCol = strings.Join(unknown, ",")
		}
		location := "-"
		if loc := p.Location(); loc != nil {
			location = strconv.FormatFloat(loc.Latitude, 'f', 5, 64) + "," + strconv.FormatFloat(loc.Longitude, 'f', 5, 64)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
			p.ID,
			p.UploadedAt.Format("2006-01-02 15:04"),
			p.OriginalName,
			p.FileSize,
			location,
			unknownCol,
			photoStorage.URL(p.University+"/"+p.Filename),
		)
	}
	return w.Flush()
}
