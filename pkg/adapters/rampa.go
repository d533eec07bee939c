package adapters

import (
	"github.com/de-tools/rampa-irr/pkg/models/api"
	"github.com/de-tools/rampa-irr/pkg/models/domain"
)

func MapReportDomainToApi(report domain.Report) api.RampaReport {
	locations := make([]api.LocationReport, 0, len(report.Locations))
	for _, loc := range report.Locations {
		locations = append(locations, MapLocationDomainToApi(loc))
	}

	return api.RampaReport{
		ReferenceDate:   report.ReferenceDate.Format("2006-01-02"),
		MonthName:       report.MonthName,
		LastDayWithData: report.LastDayWithData,
		RepeatCap:       report.RepeatCap,
		DayHeaders:      append([]string{}, report.DayHeaders...),
		Locations:       locations,
	}
}

func MapLocationDomainToApi(loc domain.LocationSeries) api.LocationReport {
	metrics := make(map[string][]interface{}, len(api.MetricOrder))
	for _, name := range api.MetricOrder {
		metrics[name] = make([]interface{}, 0, len(loc.Days))
	}

	for _, day := range loc.Days {
		metrics[api.MetricDailyAllocationTarget] = append(metrics[api.MetricDailyAllocationTarget], day.DailyAllocationTarget)
		if !day.Observed {
			metrics[api.MetricRepairs] = append(metrics[api.MetricRepairs], api.NotObserved)
			metrics[api.MetricQualifyingOutcomes] = append(metrics[api.MetricQualifyingOutcomes], api.NotObserved)
			metrics[api.MetricCumulativeRatePercent] = append(metrics[api.MetricCumulativeRatePercent], api.NotObserved)
			continue
		}
		metrics[api.MetricRepairs] = append(metrics[api.MetricRepairs], day.Repairs)
		metrics[api.MetricQualifyingOutcomes] = append(metrics[api.MetricQualifyingOutcomes], day.QualifyingOutcomes)
		metrics[api.MetricCumulativeRatePercent] = append(metrics[api.MetricCumulativeRatePercent],
			domain.FormatPercent(day.RatePercent))
	}

	return api.LocationReport{
		Name:    loc.Name,
		Metrics: metrics,
		Totals: map[string]interface{}{
			api.MetricRepairs:               loc.Totals.Repairs,
			api.MetricQualifyingOutcomes:    loc.Totals.QualifyingOutcomes,
			api.MetricDailyAllocationTarget: loc.Totals.AllocationTarget,
			api.MetricCumulativeRatePercent: domain.FormatPercent(loc.Totals.RatePercent),
		},
	}
}
