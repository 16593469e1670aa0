package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reel/internal/config"
	"reel/internal/library"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the reusable background image library",
	}

	libraryCmd.AddCommand(newLibraryListCommand(ctx))
	libraryCmd.AddCommand(newLibraryAddCommand(ctx))
	libraryCmd.AddCommand(newLibrarySearchCommand(ctx))

	return libraryCmd
}

func newLibraryListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List library images",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			images, err := library.List(cfg.Paths.LibraryDir)
			if err != nil {
				return err
			}
			printImageTable(cmd, images, cfg.Paths.LibraryDir)
			return nil
		},
	}
}

func newLibrarySearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <tag> [tag...]",
		Short: "Find library images matching every given tag",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			images, err := library.Search(cfg.Paths.LibraryDir, args)
			if err != nil {
				return err
			}
			printImageTable(cmd, images, cfg.Paths.LibraryDir)
			return nil
		},
	}
}

func newLibraryAddCommand(ctx *commandContext) *cobra.Command {
	var slug string
	var tags []string
	var description string
	var source string

	cmd := &cobra.Command{
		Use:   "add <image>",
		Short: "Copy an image into the library with sidecar metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			sourcePath, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			meta, err := library.Add(cfg.Paths.LibraryDir, sourcePath, library.AddOptions{
				Slug:        slug,
				Tags:        tags,
				Description: description,
				Source:      source,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s as %s\n", sourcePath, meta.Slug)
			return nil
		},
	}

	cmd.Flags().StringVar(&slug, "slug", "", "Slug to store the image under (default: derived from filename)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag to attach (repeatable)")
	cmd.Flags().StringVar(&description, "description", "", "Free-form description")
	cmd.Flags().StringVar(&source, "source", "", "Where the image came from")
	return cmd
}

func printImageTable(cmd *cobra.Command, images []library.ImageMeta, dir string) {
	out := cmd.OutOrStdout()
	if len(images) == 0 {
		fmt.Fprintf(out, "No images in %s\n", dir)
		return
	}
	rows := make([][]string, 0, len(images))
	for _, meta := range images {
		rows = append(rows, []string{
			meta.Slug,
			strings.Join(meta.Tags, ", "),
			meta.Description,
			meta.Added,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Slug", "Tags", "Description", "Added"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
	))
	fmt.Fprintf(out, "%d images\n", len(images))
}
