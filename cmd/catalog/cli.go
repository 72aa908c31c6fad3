package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/smallbiznis/catalogview/internal/product/aggregate"
	"github.com/smallbiznis/catalogview/internal/product/domain"
	"github.com/smallbiznis/catalogview/internal/product/search"
	"github.com/smallbiznis/catalogview/internal/product/store"
	"github.com/smallbiznis/catalogview/internal/product/tools"
	"github.com/smallbiznis/catalogview/internal/product/validation"
	"github.com/smallbiznis/catalogview/internal/providers/pdf"
	"go.uber.org/fx"
)

var errUsage = errors.New("usage")

type cliParams struct {
	fx.In

	Gateway    domain.Gateway
	Store      *store.Store
	Dispatcher *search.Dispatcher
	PDF        pdf.Provider
}

type cli struct {
	store      *store.Store
	dispatcher *search.Dispatcher
	pdf        pdf.Provider
	tools      []tool.BaseTool
	out        io.Writer
	errOut     io.Writer
	// op is the store operation the last command ran, used to word errors.
	op string
}

func newCLI(p cliParams) *cli {
	return &cli{
		store:      p.Store,
		dispatcher: p.Dispatcher,
		pdf:        p.PDF,
		tools:      tools.New(p.Gateway),
		out:        os.Stdout,
		errOut:     os.Stderr,
	}
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list":
		return c.list(ctx, rest)
	case "get":
		return c.get(ctx, rest)
	case "create":
		return c.create(ctx, rest)
	case "update":
		return c.update(ctx, rest)
	case "delete":
		return c.delete(ctx, rest)
	case "search":
		return c.search(ctx, rest)
	case "summary":
		return c.summary(ctx, rest)
	case "count":
		return c.count(ctx, rest)
	case "tool":
		return c.tool(ctx, rest)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (c *cli) list(ctx context.Context, args []string) error {
	fs := newFlagSet("list")
	pdfPath := fs.String("pdf", "", "write the list as a PDF report to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c.op = domain.OpList
	items, err := c.store.Load(ctx)
	if err != nil {
		return err
	}
	if *pdfPath != "" {
		r, err := c.pdf.GenerateProductList(ctx, items)
		if err != nil {
			return err
		}
		return writeFile(*pdfPath, r)
	}
	return c.emitProducts(items)
}

func (c *cli) get(ctx context.Context, args []string) error {
	fs := newFlagSet("get")
	key := fs.Int64("key", 0, "product key")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c.op = domain.OpGet
	p, err := c.store.LoadOne(ctx, *key)
	if err != nil {
		return err
	}
	return c.emit(p)
}

func (c *cli) create(ctx context.Context, args []string) error {
	fs := newFlagSet("create")
	var d domain.Draft
	bindDraft(fs, &d)
	if err := fs.Parse(args); err != nil {
		return err
	}

	c.op = domain.OpCreate
	created, err := c.store.ApplyCreate(ctx, d)
	if err != nil {
		return err
	}
	return c.emit(created)
}

// update fetches the record, applies the flags that were set and submits the
// full record.
func (c *cli) update(ctx context.Context, args []string) error {
	fs := newFlagSet("update")
	var patch domain.Draft
	bindDraft(fs, &patch)
	if err := fs.Parse(args); err != nil {
		return err
	}

	c.op = domain.OpUpdate
	key, err := strconv.ParseInt(strings.TrimSpace(patch.ProductKey), 10, 64)
	if err != nil || key <= 0 {
		return domain.NewValidationError(domain.OpUpdate, map[string]string{
			validation.FieldProductKey: "Product Key must be a positive number",
		})
	}

	c.op = domain.OpGet
	current, err := c.store.LoadOne(ctx, key)
	if err != nil {
		return err
	}

	d := domain.DraftFromProduct(current)
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			d.ProductName = patch.ProductName
		case "brand":
			d.Brand = patch.Brand
		case "model":
			d.Model = patch.Model
		case "retailer":
			d.Retailer = patch.Retailer
		case "price":
			d.Price = patch.Price
		case "description":
			d.ProductDescription = patch.ProductDescription
		}
	})

	c.op = domain.OpUpdate
	p, res := validation.Parse(d)
	if err := res.Err(domain.OpUpdate); err != nil {
		return err
	}
	updated, err := c.store.ApplyUpdate(ctx, p)
	if err != nil {
		return err
	}
	return c.emit(updated)
}

func (c *cli) delete(ctx context.Context, args []string) error {
	fs := newFlagSet("delete")
	key := fs.Int64("key", 0, "product key")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c.op = domain.OpDelete
	if err := c.store.ApplyDelete(ctx, *key); err != nil {
		return err
	}
	return c.emit(map[string]int64{"deleted": *key})
}

func (c *cli) search(ctx context.Context, args []string) error {
	fs := newFlagSet("search")
	field := fs.String("field", string(domain.SearchByName), "field to search: name or brand")
	term := fs.String("term", "", "search term; blank lists everything")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c.op = domain.OpSearch
	items, err := c.dispatcher.Dispatch(ctx, *field, *term)
	if err != nil {
		return err
	}
	return c.emitProducts(items)
}

func (c *cli) summary(ctx context.Context, args []string) error {
	fs := newFlagSet("summary")
	local := fs.Bool("local", false, "aggregate the full product list locally instead of using the server summary")
	pdfPath := fs.String("pdf", "", "write the summary as a PDF report to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var stats aggregate.Statistics
	if *local {
		c.op = domain.OpList
		items, err := c.store.Load(ctx)
		if err != nil {
			return err
		}
		stats = aggregate.Compute(items)
	} else {
		c.op = domain.OpBrandSummary
		buckets, err := c.store.BrandSummary(ctx)
		if err != nil {
			return err
		}
		stats = aggregate.FromBuckets(buckets)
	}

	if *pdfPath != "" {
		r, err := c.pdf.GenerateBrandSummary(ctx, stats)
		if err != nil {
			return err
		}
		return writeFile(*pdfPath, r)
	}
	return c.emit(stats)
}

func (c *cli) count(ctx context.Context, args []string) error {
	if err := newFlagSet("count").Parse(args); err != nil {
		return err
	}

	c.op = domain.OpCount
	n, err := c.store.Count(ctx)
	if err != nil {
		return err
	}
	return c.emit(map[string]int64{"count": n})
}

// tool runs one agent tool with JSON arguments, or lists the tools when no
// name is given.
func (c *cli) tool(ctx context.Context, args []string) error {
	if len(args) == 0 {
		for _, t := range c.tools {
			info, err := t.Info(ctx)
			if err != nil {
				return err
			}
			if err := c.emit(map[string]string{"name": info.Name, "description": info.Desc}); err != nil {
				return err
			}
		}
		return nil
	}

	name, input := args[0], "{}"
	if len(args) > 1 {
		input = args[1]
	}
	for _, t := range c.tools {
		info, err := t.Info(ctx)
		if err != nil {
			return err
		}
		if info.Name != name {
			continue
		}
		invokable, ok := t.(tool.InvokableTool)
		if !ok {
			return fmt.Errorf("tool %q is not invokable", name)
		}
		out, err := invokable.InvokableRun(ctx, input)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.out, out)
		return err
	}
	return fmt.Errorf("%w: unknown tool %q", errUsage, name)
}

// report writes the human-readable cause of err followed by any field
// errors, one per line.
func (c *cli) report(err error) {
	if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(c.errOut, err)
		usage()
		return
	}

	fmt.Fprintln(c.errOut, "error:", domain.Message(c.op, err))
	fields := domain.FieldErrors(err)
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(c.errOut, "  %s: %s\n", name, fields[name])
	}
}

func (c *cli) emit(v any) error {
	return json.NewEncoder(c.out).Encode(v)
}

func (c *cli) emitProducts(items []domain.Product) error {
	enc := json.NewEncoder(c.out)
	for _, p := range items {
		if err := enc.Encode(p); err != nil {
			return err
		}
	}
	return nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func bindDraft(fs *flag.FlagSet, d *domain.Draft) {
	fs.StringVar(&d.ProductKey, "key", "", "product key")
	fs.StringVar(&d.ProductName, "name", "", "product name")
	fs.StringVar(&d.Brand, "brand", "", "brand")
	fs.StringVar(&d.Model, "model", "", "model")
	fs.StringVar(&d.Retailer, "retailer", "", "retailer")
	fs.StringVar(&d.Price, "price", "", "price")
	fs.StringVar(&d.ProductDescription, "description", "", "description")
}

func writeFile(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
