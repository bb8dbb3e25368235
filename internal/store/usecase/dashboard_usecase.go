package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"go.uber.org/zap"

	"artdash/internal/shared/logger"
	"artdash/internal/store/config"
	"artdash/internal/store/domain/model"
	"artdash/internal/store/domain/repository"
)

var (
	ErrVisitFieldsMissing = errors.New("device and pageUrl are required to record traffic")
	ErrInvalidDevice      = errors.New("device must be Mobile, Tablet or Web")
)

var monthLabels = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// countryFlags maps shipping countries to their flag emoji for the sales widget.
var countryFlags = map[string]string{
	"United States": "\U0001F1FA\U0001F1F8",
	"India":         "\U0001F1EE\U0001F1F3",
	"Canada":        "\U0001F1E8\U0001F1E6",
	"New Zealand":   "\U0001F1F3\U0001F1FF",
	"Pakistan":      "\U0001F1F5\U0001F1F0",
}

const fallbackFlag = "\U0001F3F3️"

// DashboardStats is the stat-card payload. Session duration, uptime, latency
// and NPS have no backing collection yet and are served as fixed values.
type DashboardStats struct {
	WebsiteTraffic   string  `json:"websiteTraffic"`
	ConversionRate   string  `json:"conversionRate"`
	ActiveUsers      string  `json:"activeUsers"`
	SessionDuration  string  `json:"sessionDuration"`
	TrafficGrowth    string  `json:"trafficGrowth"`
	ConversionGrowth string  `json:"conversionGrowth"`
	UsersGrowth      string  `json:"usersGrowth"`
	SessionGrowth    string  `json:"sessionGrowth"`
	AvgDailySales    string  `json:"avgDailySales"`
	ServerUptime     string  `json:"serverUptime"`
	APILatencyMs     int     `json:"apiLatencyMs"`
	NPSScore         float64 `json:"npsScore"`
}

// EarningsSummary holds the formatted totals under the earnings chart.
type EarningsSummary struct {
	Earnings string `json:"earnings"`
	Profit   string `json:"profit"`
	Tax      string `json:"tax"`
	Expense  string `json:"expense"`
}

// EarningsReport is the monthly earnings bar-chart payload. DataA carries
// delivered revenue per month, DataB the projected profit share.
type EarningsReport struct {
	Labels  []string        `json:"labels"`
	DataA   []float64       `json:"dataA"`
	DataB   []float64       `json:"dataB"`
	Summary EarningsSummary `json:"summary"`
}

// DeviceVisits holds the visit share per device class, in whole percents.
type DeviceVisits struct {
	Mobile int `json:"mobile"`
	Tablet int `json:"tablet"`
	Web    int `json:"web"`
}

// SourceRow is one traffic source with its share of the busiest source.
type SourceRow struct {
	Source     string `json:"source"`
	Clicks     int64  `json:"clicks"`
	Percentage int    `json:"percentage"`
}

// CountryRow is one destination country in the sales widget.
type CountryRow struct {
	Flag   string `json:"flag"`
	Name   string `json:"name"`
	Value  string `json:"value"`
	Growth string `json:"growth"`
}

// CampaignRow maps a payment channel onto the campaign table.
type CampaignRow struct {
	Source     string `json:"source"`
	Medium     string `json:"medium"`
	Campaign   string `json:"campaign"`
	Clicks     int64  `json:"clicks"`
	Conversion string `json:"conversion"`
}

// PageRow is one entry of the top-pages widget.
type PageRow struct {
	URL      string `json:"url"`
	Clicks   int64  `json:"clicks"`
	Position string `json:"position"`
}

// MonthlySeries is a 12-bucket chart payload (leads chart).
type MonthlySeries struct {
	Labels []string `json:"labels"`
	Data   []int64  `json:"data"`
}

// BrowserShare is the browser pie-chart payload, data in whole percents.
type BrowserShare struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// VisitInput carries one traffic ping from the storefront.
type VisitInput struct {
	Device  string `json:"device"`
	Browser string `json:"browser"`
	Source  string `json:"source"`
	PageURL string `json:"pageUrl"`
}

// DashboardUsecase answers the admin analytics widgets from the traffic,
// order and contact collections.
type DashboardUsecase struct {
	traffic  repository.TrafficRepository
	orders   repository.OrderRepository
	contacts repository.ContactRepository
	cfg      *config.Config
	log      logger.Logger
	now      func() time.Time
}

// NewDashboardUsecase creates a new dashboard usecase.
func NewDashboardUsecase(
	traffic repository.TrafficRepository,
	orders repository.OrderRepository,
	contacts repository.ContactRepository,
	cfg *config.Config,
	log logger.Logger,
) *DashboardUsecase {
	return &DashboardUsecase{
		traffic:  traffic,
		orders:   orders,
		contacts: contacts,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// monthWindow returns the start of the current month, the start of the next
// month and the start of the previous month relative to uc.now.
func (uc *DashboardUsecase) monthWindow() (current, next, previous time.Time) {
	n := uc.now()
	current = time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, n.Location())
	next = current.AddDate(0, 1, 0)
	previous = current.AddDate(0, -1, 0)
	return current, next, previous
}

// RecordVisit validates and stores one traffic ping.
func (uc *DashboardUsecase) RecordVisit(ctx context.Context, in VisitInput) error {
	if in.Device == "" || in.PageURL == "" {
		return ErrVisitFieldsMissing
	}
	if !model.ValidDevice(in.Device) {
		return ErrInvalidDevice
	}
	if in.Browser == "" {
		in.Browser = "Unknown"
	}
	if in.Source == "" {
		in.Source = "direct"
	}

	visit := &model.TrafficVisit{
		PageURL: in.PageURL,
		Device:  in.Device,
		Source:  in.Source,
		Browser: in.Browser,
	}
	if err := uc.traffic.RecordVisit(ctx, visit); err != nil {
		return fmt.Errorf("failed to record visit: %w", err)
	}

	uc.log.Debug("traffic visit recorded",
		zap.String("device", in.Device), zap.String("pageUrl", in.PageURL))
	return nil
}

// Stats assembles the stat-card numbers for the current month against the
// previous one.
func (uc *DashboardUsecase) Stats(ctx context.Context) (*DashboardStats, error) {
	currentStart, nextStart, previousStart := uc.monthWindow()

	currentTraffic, err := uc.traffic.CountBetween(ctx, currentStart, nextStart)
	if err != nil {
		return nil, fmt.Errorf("failed to count current traffic: %w", err)
	}
	previousTraffic, err := uc.traffic.CountBetween(ctx, previousStart, currentStart)
	if err != nil {
		return nil, fmt.Errorf("failed to count previous traffic: %w", err)
	}

	salesStatuses := []string{model.StatusDelivered, model.StatusShipped}
	currentSales, err := uc.orders.CountBetween(ctx, currentStart, nextStart, salesStatuses)
	if err != nil {
		return nil, fmt.Errorf("failed to count current sales: %w", err)
	}
	previousSales, err := uc.orders.CountBetween(ctx, previousStart, currentStart, salesStatuses)
	if err != nil {
		return nil, fmt.Errorf("failed to count previous sales: %w", err)
	}

	activeUsers, err := uc.traffic.UniqueBrowsersBetween(ctx, currentStart, nextStart)
	if err != nil {
		return nil, fmt.Errorf("failed to count active users: %w", err)
	}
	previousActive, err := uc.traffic.UniqueBrowsersBetween(ctx, previousStart, currentStart)
	if err != nil {
		return nil, fmt.Errorf("failed to count previous active users: %w", err)
	}

	delivered, err := uc.orders.SumDelivered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum delivered orders: %w", err)
	}

	var conversionRate, previousConversion float64
	if currentTraffic > 0 {
		conversionRate = float64(currentSales) / float64(currentTraffic) * 100
	}
	if previousTraffic > 0 {
		previousConversion = float64(previousSales) / float64(previousTraffic) * 100
	}

	daysInMonth := nextStart.Sub(currentStart).Hours() / 24
	avgDailySales := delivered.Total / daysInMonth

	return &DashboardStats{
		WebsiteTraffic:   groupThousands(currentTraffic),
		ConversionRate:   percentString(conversionRate, currentTraffic > 0),
		ActiveUsers:      groupThousands(activeUsers),
		SessionDuration:  "85 Sec",
		TrafficGrowth:    growthString(float64(currentTraffic), float64(previousTraffic)),
		ConversionGrowth: growthString(conversionRate, previousConversion),
		UsersGrowth:      growthString(float64(activeUsers), float64(previousActive)),
		SessionGrowth:    "-22%",
		AvgDailySales:    fmt.Sprintf("%.2f", avgDailySales),
		ServerUptime:     "99.9%",
		APILatencyMs:     45,
		NPSScore:         7.8,
	}, nil
}

// EarningsReport builds the per-month delivered revenue chart. Profit is
// projected at 80% of revenue, tax and expense at 10% each.
func (uc *DashboardUsecase) EarningsReport(ctx context.Context) (*EarningsReport, error) {
	earnings, err := uc.orders.MonthlyDeliveredTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly earnings: %w", err)
	}

	dataA := make([]float64, 12)
	dataB := make([]float64, 12)
	for _, row := range earnings {
		if row.Month < 1 || row.Month > 12 {
			continue
		}
		dataA[row.Month-1] = row.Total
		dataB[row.Month-1] = row.Total * 0.8
	}

	var totalEarnings, totalProfit float64
	for i := range dataA {
		totalEarnings += dataA[i]
		totalProfit += dataB[i]
	}

	return &EarningsReport{
		Labels: monthLabels,
		DataA:  dataA,
		DataB:  dataB,
		Summary: EarningsSummary{
			Earnings: fmt.Sprintf("$%.2f", totalEarnings),
			Profit:   fmt.Sprintf("$%.2f", totalProfit),
			Tax:      fmt.Sprintf("$%.2f", totalEarnings*0.1),
			Expense:  fmt.Sprintf("$%.2f", totalEarnings*0.1),
		},
	}, nil
}

// DeviceVisits returns the visit share per device class.
func (uc *DashboardUsecase) DeviceVisits(ctx context.Context) (*DeviceVisits, error) {
	counts, err := uc.traffic.CountByDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate device visits: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	share := func(device string) int {
		if total == 0 {
			return 0
		}
		return int(math.Round(float64(counts[device]) / float64(total) * 100))
	}

	return &DeviceVisits{
		Mobile: share(model.DeviceMobile),
		Tablet: share(model.DeviceTablet),
		Web:    share(model.DeviceWeb),
	}, nil
}

// TrafficSources lists traffic sources ordered by clicks, each with its
// share of the busiest source.
func (uc *DashboardUsecase) TrafficSources(ctx context.Context) ([]SourceRow, error) {
	sources, err := uc.traffic.ClicksBySource(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate traffic sources: %w", err)
	}

	var maxClicks int64
	if len(sources) > 0 {
		maxClicks = sources[0].Clicks
	}

	result := make([]SourceRow, 0, len(sources))
	for _, s := range sources {
		name := s.Source
		if name == "" {
			name = "Unknown"
		}

		var percent int
		if maxClicks > 0 {
			percent = int(math.Round(float64(s.Clicks) / float64(maxClicks) * 100))
		}

		result = append(result, SourceRow{Source: name, Clicks: s.Clicks, Percentage: percent})
	}
	return result, nil
}

// SalesCountries lists delivered revenue per destination country for the
// current month, with month-over-month growth.
func (uc *DashboardUsecase) SalesCountries(ctx context.Context) ([]CountryRow, error) {
	currentStart, nextStart, previousStart := uc.monthWindow()

	current, err := uc.orders.SalesByCountry(ctx, currentStart, nextStart)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate current country sales: %w", err)
	}
	previous, err := uc.orders.SalesByCountry(ctx, previousStart, currentStart)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate previous country sales: %w", err)
	}

	previousByCountry := make(map[string]float64, len(previous))
	for _, row := range previous {
		previousByCountry[row.Country] = row.Total
	}

	result := make([]CountryRow, 0, len(current))
	for _, row := range current {
		var growth float64
		if prev := previousByCountry[row.Country]; prev > 0 {
			growth = (row.Total - prev) / prev * 100
		}

		flag, ok := countryFlags[row.Country]
		if !ok {
			flag = fallbackFlag
		}

		result = append(result, CountryRow{
			Flag:   flag,
			Name:   row.Country,
			Value:  fmt.Sprintf("$%.0fK", row.Total/1000),
			Growth: signedPercent(growth),
		})
	}
	return result, nil
}

// CampaignSources maps delivered sales per payment channel onto the campaign
// table. A sample social row pads the table when fewer than three channels
// have sales.
func (uc *DashboardUsecase) CampaignSources(ctx context.Context) ([]CampaignRow, error) {
	channels, err := uc.orders.DeliveredByPaymentMethod(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payment channels: %w", err)
	}

	result := make([]CampaignRow, 0, len(channels)+1)
	for _, ch := range channels {
		source, medium := "Unknown", "Unknown"
		switch ch.Method {
		case "cod":
			source, medium = "Offline", "Cash"
		case "stripe", "paypal":
			source, medium = "Payment Gateway", "Online"
		}

		campaign := ch.Method
		if campaign == "" {
			campaign = "Unknown"
		}

		var conversion float64
		if ch.Count > 0 {
			conversion = ch.Total / float64(ch.Count) / 100
		}

		result = append(result, CampaignRow{
			Source:     source,
			Medium:     medium,
			Campaign:   campaign,
			Clicks:     ch.Count,
			Conversion: fmt.Sprintf("%.2f%%", conversion),
		})
	}

	if len(result) < 3 {
		result = append(result, CampaignRow{
			Source: "Social", Medium: "Instagram", Campaign: "Q4_Ad",
			Clicks: 400, Conversion: "3.00%",
		})
	}
	return result, nil
}

// TopPages lists the most visited pages.
func (uc *DashboardUsecase) TopPages(ctx context.Context) ([]PageRow, error) {
	pages, err := uc.traffic.TopPages(ctx, uc.cfg.TopPagesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top pages: %w", err)
	}

	result := make([]PageRow, 0, len(pages))
	for _, p := range pages {
		// Search position has no data source yet, matching the widget's
		// sample rendering.
		result = append(result, PageRow{
			URL:      p.PageURL,
			Clicks:   p.Clicks,
			Position: strconv.FormatFloat(rand.Float64()*10, 'f', 2, 64),
		})
	}
	return result, nil
}

// TopLeads buckets contact-form submissions per month.
func (uc *DashboardUsecase) TopLeads(ctx context.Context) (*MonthlySeries, error) {
	leads, err := uc.contacts.MonthlyLeadCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate leads: %w", err)
	}

	data := make([]int64, 12)
	for _, row := range leads {
		if row.Month < 1 || row.Month > 12 {
			continue
		}
		data[row.Month-1] = row.Count
	}

	return &MonthlySeries{Labels: monthLabels, Data: data}, nil
}

// TopSessions returns the browser share of all recorded visits.
func (uc *DashboardUsecase) TopSessions(ctx context.Context) (*BrowserShare, error) {
	browsers, err := uc.traffic.CountByBrowser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate browsers: %w", err)
	}

	var total int64
	for _, b := range browsers {
		total += b.Count
	}

	labels := make([]string, 0, len(browsers))
	data := make([]int, 0, len(browsers))
	for _, b := range browsers {
		name := b.Browser
		if name == "" {
			name = "Unknown"
		}
		labels = append(labels, name)

		var percent int
		if total > 0 {
			percent = int(math.Round(float64(b.Count) / float64(total) * 100))
		}
		data = append(data, percent)
	}

	return &BrowserShare{Labels: labels, Data: data}, nil
}

// growthString formats month-over-month growth. A missing baseline reads as
// flat rather than infinite growth.
func growthString(current, previous float64) string {
	if previous <= 0 {
		return "+0%"
	}
	return signedPercent((current - previous) / previous * 100)
}

func signedPercent(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.1f%%", v)
	}
	return fmt.Sprintf("%.1f%%", v)
}

func percentString(v float64, haveData bool) string {
	if !haveData {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", v)
}

// groupThousands renders n with comma separators for the stat cards.
func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, digit := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digit)
	}
	return string(out)
}
