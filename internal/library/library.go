package library

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"reel/internal/services"
)

// SupportedExtensions lists the image formats the library accepts, in probe
// order.
var SupportedExtensions = []string{".png", ".jpg", ".jpeg", ".webp"}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:[_-][a-z0-9]+)*$`)

// ImageMeta describes one library image and its sidecar metadata.
type ImageMeta struct {
	Slug        string
	Path        string
	Tags        []string
	Description string
	Source      string
	Added       string
}

// sidecar is the YAML layout of the metadata file next to each image.
type sidecar struct {
	Tags        []string `yaml:"tags"`
	Description string   `yaml:"description"`
	Source      string   `yaml:"source"`
	Added       string   `yaml:"added"`
}

// ValidateSlug checks that a slug is safe and follows the naming convention.
func ValidateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return services.Wrap(services.ErrValidation, "library", "validate slug",
			fmt.Sprintf("invalid slug %q: must be lowercase alphanumeric with hyphens/underscores (e.g. 001_kokkai)", slug), nil)
	}
	return nil
}

// ResolvePath resolves a slug to its image file within dir.
func ResolvePath(dir, slug string) (string, error) {
	if err := ValidateSlug(slug); err != nil {
		return "", err
	}
	for _, ext := range SupportedExtensions {
		path := filepath.Join(dir, slug+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", services.Wrap(services.ErrNotFound, "library", "resolve image",
		fmt.Sprintf("no image for slug %q in %s", slug, dir), nil)
}

// LoadMeta loads metadata for a single image by slug. A missing sidecar is
// not an error; the image stands alone with empty metadata.
func LoadMeta(dir, slug string) (ImageMeta, error) {
	imagePath, err := ResolvePath(dir, slug)
	if err != nil {
		return ImageMeta{}, err
	}

	meta := ImageMeta{Slug: slug, Path: imagePath}
	data, err := os.ReadFile(filepath.Join(dir, slug+".yml"))
	if err != nil {
		if os.IsNotExist(err) {
			return meta, nil
		}
		return ImageMeta{}, fmt.Errorf("read sidecar for %q: %w", slug, err)
	}

	var sc sidecar
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return ImageMeta{}, fmt.Errorf("parse sidecar for %q: %w", slug, err)
	}
	meta.Tags = sc.Tags
	meta.Description = sc.Description
	meta.Source = sc.Source
	meta.Added = sc.Added
	return meta, nil
}

// List returns all library images sorted by slug. A missing library
// directory yields an empty list, not an error.
func List(dir string) ([]ImageMeta, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read library dir: %w", err)
	}

	slugs := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		for _, supported := range SupportedExtensions {
			if ext == supported {
				slugs[strings.TrimSuffix(name, filepath.Ext(name))] = struct{}{}
				break
			}
		}
	}

	ordered := make([]string, 0, len(slugs))
	for slug := range slugs {
		ordered = append(ordered, slug)
	}
	sort.Strings(ordered)

	out := make([]ImageMeta, 0, len(ordered))
	for _, slug := range ordered {
		meta, err := LoadMeta(dir, slug)
		if err != nil {
			return nil, err
		}
		out = append(out, meta)
	}
	return out, nil
}

// Search returns images whose tags contain every requested tag,
// case-insensitively.
func Search(dir string, tags []string) ([]ImageMeta, error) {
	all, err := List(dir)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		wanted[strings.ToLower(t)] = struct{}{}
	}

	var out []ImageMeta
	for _, meta := range all {
		have := make(map[string]struct{}, len(meta.Tags))
		for _, t := range meta.Tags {
			have[strings.ToLower(t)] = struct{}{}
		}
		matched := true
		for t := range wanted {
			if _, ok := have[t]; !ok {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, meta)
		}
	}
	return out, nil
}

// AddOptions customizes Add. Zero values auto-number the slug and leave
// metadata empty.
type AddOptions struct {
	Slug        string
	Tags        []string
	Description string
	Source      string
}

// Add copies an image into the library and writes its YAML sidecar. When no
// slug is given one is derived from the source filename with an
// auto-incremented three-digit prefix.
func Add(dir, sourcePath string, opts AddOptions) (ImageMeta, error) {
	ext := strings.ToLower(filepath.Ext(sourcePath))
	supported := false
	for _, s := range SupportedExtensions {
		if ext == s {
			supported = true
			break
		}
	}
	if !supported {
		return ImageMeta{}, services.Wrap(services.ErrValidation, "library", "add image",
			fmt.Sprintf("unsupported image format %q (supported: %s)", ext, strings.Join(SupportedExtensions, ", ")), nil)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ImageMeta{}, fmt.Errorf("create library dir: %w", err)
	}

	slug := opts.Slug
	if slug == "" {
		slug = autoSlug(dir, sourcePath)
	} else if err := ValidateSlug(slug); err != nil {
		return ImageMeta{}, err
	}

	destPath := filepath.Join(dir, slug+ext)
	if _, err := os.Stat(destPath); err == nil {
		return ImageMeta{}, services.Wrap(services.ErrValidation, "library", "add image",
			fmt.Sprintf("image already exists: %s", destPath), nil)
	}

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return ImageMeta{}, fmt.Errorf("read source image: %w", err)
	}
	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return ImageMeta{}, fmt.Errorf("copy image: %w", err)
	}

	meta := ImageMeta{
		Slug:        slug,
		Path:        destPath,
		Tags:        opts.Tags,
		Description: opts.Description,
		Source:      opts.Source,
		Added:       time.Now().Format("2006-01-02"),
	}
	if err := writeSidecar(dir, meta); err != nil {
		return ImageMeta{}, err
	}
	return meta, nil
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9-]`)
var slugDashes = regexp.MustCompile(`-+`)

// autoSlug derives a numbered slug from the source filename.
func autoSlug(dir, sourcePath string) string {
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	base = slugUnsafe.ReplaceAllString(strings.ToLower(base), "-")
	base = strings.Trim(slugDashes.ReplaceAllString(base, "-"), "-")
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("%03d_%s", nextSlugNumber(dir), base)
}

// nextSlugNumber returns the next free three-digit numeric prefix.
func nextSlugNumber(dir string) int {
	maxNum := 0
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 1
	}
	for _, entry := range entries {
		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if len(stem) >= 3 {
			if num, err := strconv.Atoi(stem[:3]); err == nil && num > maxNum {
				maxNum = num
			}
		}
	}
	return maxNum + 1
}

func writeSidecar(dir string, meta ImageMeta) error {
	data, err := yaml.Marshal(sidecar{
		Tags:        meta.Tags,
		Description: meta.Description,
		Source:      meta.Source,
		Added:       meta.Added,
	})
	if err != nil {
		return fmt.Errorf("marshal sidecar: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, meta.Slug+".yml"), data, 0o644); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}
	return nil
}
