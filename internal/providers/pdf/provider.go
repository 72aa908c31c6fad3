// Package pdf renders catalog reports with maroto.
package pdf

import (
	"context"
	"io"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/smallbiznis/catalogview/internal/product/aggregate"
	"github.com/smallbiznis/catalogview/internal/product/domain"
	"go.uber.org/fx"
)

type Provider interface {
	GenerateBrandSummary(ctx context.Context, stats aggregate.Statistics) (io.Reader, error)
	GenerateProductList(ctx context.Context, products []domain.Product) (io.Reader, error)
}

type PDFProvider struct {
	now func() time.Time
}

func New() Provider {
	return &PDFProvider{now: time.Now}
}

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)

func (p *PDFProvider) newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)
	m.AddRow(12,
		text.NewCol(12, title, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)
	m.AddRow(8,
		text.NewCol(12, "Generated "+p.now().UTC().Format(time.RFC1123), props.Text{
			Size:  8,
			Align: align.Left,
		}),
	)
	return m
}

var (
	headerText = props.Text{Style: fontstyle.Bold, Size: 9}
	cellText   = props.Text{Size: 9}
)

func rightAligned(p props.Text) props.Text {
	p.Align = align.Right
	return p
}
