package provider

import (
	"fmt"
	"strings"
	"time"
)

var trialPhases = []string{"Phase 1", "Phase 2", "Phase 3", "Phase 4"}

func (s *Sources) generateTrials(molecule string) *TrialsPayload {
	byIndication := make(map[string][]Trial)
	var (
		perPhase        [4]int
		total, enrolled int
		estimated       int
		industry        int
		academic        int
		government      int
	)

	for _, indication := range s.sample(indications, s.between(3, 6)) {
		count := s.between(2, 6)
		trials := make([]Trial, 0, count)
		for i := 0; i < count; i++ {
			phase := s.rng.IntN(len(trialPhases))
			status := s.choice([]string{"Recruiting", "Active, not recruiting", "Completed", "Terminated", "Not yet recruiting"})
			target := s.between(100, 5000)
			current := s.between(50, target)

			t := Trial{
				NCTID:               fmt.Sprintf("NCT0%d", s.between(1000000, 9999999)),
				Title:               fmt.Sprintf("%s in %s - %s Study", molecule, indication, trialPhases[phase]),
				Phase:               trialPhases[phase],
				Status:              status,
				Sponsor:             s.choice(sponsors),
				Enrollment:          current,
				TargetEnrollment:    target,
				EnrollmentStatus:    fmt.Sprintf("%.0f%% complete", float64(current)/float64(target)*100),
				StartDate:           s.yearsAgo(1, 5),
				EstimatedCompletion: s.yearsAhead(1, 4),
				PrimaryEndpoints:    s.sample([]string{"Overall Survival", "Progression-Free Survival", "HbA1c reduction", "Safety and tolerability", "Objective Response Rate", "Time to Progression"}, 2),
				SecondaryEndpoints:  s.sample([]string{"Quality of life", "Pharmacokinetics", "Hospitalization rate", "Biomarker response", "Adverse events"}, s.between(1, 3)),
				InclusionCriteria:   fmt.Sprintf("Adults 18-%d with confirmed %s", s.between(65, 85), indication),
				ResultsPosted:       status == "Completed" && s.coin(),
				Classification:      s.choice([]string{"Innovation signal", "Label expansion", "Lifecycle management", "Competitive response"}),
				CompetitiveThreat:   s.choice([]string{"LOW", "MEDIUM", "HIGH"}),
			}
			if status == "Terminated" {
				t.TerminationReason = s.choice([]string{"Slow enrollment", "Sponsor decision", "Futility at interim analysis", "Safety signal"})
			}

			switch sponsorKind(t.Sponsor) {
			case "government":
				government++
			case "academic":
				academic++
			default:
				industry++
			}

			perPhase[phase]++
			total++
			enrolled += current
			estimated += target
			trials = append(trials, t)
		}
		byIndication[indication] = trials
	}

	recruiting := 0
	active := 0
	for _, trials := range byIndication {
		for _, t := range trials {
			if t.Status == "Recruiting" {
				recruiting++
			}
			if t.Status != "Completed" && t.Status != "Terminated" {
				active++
			}
		}
	}

	return &TrialsPayload{
		Molecule:              molecule,
		TotalActiveTrials:     active,
		TotalRecruitingTrials: recruiting,
		TrialsByIndication:    byIndication,
		PipelineSummary: &PipelineSummary{
			Phase1Count:            perPhase[0],
			Phase2Count:            perPhase[1],
			Phase3Count:            perPhase[2],
			Phase4Count:            perPhase[3],
			TotalTrials:            total,
			TotalPatientsEnrolled:  enrolled,
			TotalEstimatedPatients: estimated,
		},
		SponsorAnalysis: &SponsorAnalysis{
			IndustrySponsored:   industry,
			AcademicSponsored:   academic,
			GovernmentSponsored: government,
			TopSponsor:          s.choice(sponsors),
		},
		TimelineAnalysis: &TimelineAnalysis{
			AvgPhaseDuration:      fmt.Sprintf("%.1f years", s.uniform(1.5, 4)),
			EstimatedApprovalDate: s.now().AddDate(s.between(1, 5), 0, 0).Format("January 2006"),
			KeyMilestones: []string{
				fmt.Sprintf("Phase 3 readout expected %s", s.now().AddDate(0, s.between(3, 18), 0).Format("Jan 2006")),
				"Regulatory submission planning underway",
				fmt.Sprintf("Interim analysis scheduled Q%d %d", s.between(1, 4), s.now().Year()+1),
			},
		},
		Metadata: map[string]any{
			"data_source": "ClinicalTrials.gov + EU CTR",
			"last_update": s.daysAgo(1, 7),
			"query_date":  s.now().Format(time.DateOnly),
		},
	}
}

// phaseCounts tallies trials per phase across all indications.
func phaseCounts(byIndication map[string][]Trial) PipelineSummary {
	var sum PipelineSummary
	for _, trials := range byIndication {
		for _, t := range trials {
			switch t.Phase {
			case "Phase 1", "Phase I", "Phase 1/2":
				sum.Phase1Count++
			case "Phase 2", "Phase II", "Phase 2/3":
				sum.Phase2Count++
			case "Phase 3", "Phase III":
				sum.Phase3Count++
			case "Phase 4", "Phase IV":
				sum.Phase4Count++
			}
			sum.TotalTrials++
			sum.TotalPatientsEnrolled += t.Enrollment
			if t.TargetEnrollment > 0 {
				sum.TotalEstimatedPatients += t.TargetEnrollment
			} else {
				sum.TotalEstimatedPatients += t.Enrollment
			}
		}
	}
	return sum
}

func sponsorKind(sponsor string) string {
	lower := strings.ToLower(sponsor)
	switch {
	case strings.Contains(lower, "national") || strings.Contains(lower, "veterans"):
		return "government"
	case strings.Contains(lower, "university") || strings.Contains(lower, "clinic") ||
		strings.Contains(lower, "hospital") || strings.Contains(lower, "school") ||
		strings.Contains(lower, "institute") || strings.Contains(lower, "medical center"):
		return "academic"
	default:
		return "industry"
	}
}
