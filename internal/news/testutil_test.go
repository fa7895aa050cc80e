package news

import "time"

var kst = time.FixedZone("KST", 9*60*60)

// referenceEntity and referenceGroups mirror configs/feeds.yaml.
var referenceEntity = TagRule{
	ID:     "competitor",
	Label:  "🏢경쟁사",
	Weight: 100,
	Keywords: []string{
		"AIT Studio", "AIT스튜디오", "에이트스튜디오", "MediStep", "메디스텝",
		"Angel Robotics", "엔젤로보틱스", "Angel Legs", "M20",
		"WIRobotics", "위로보틱스",
		"Spina Systems", "스피나시스템즈", "PediSol", "페디솔",
		"Ochy", "LocoStep", "ExaMD", "OneStep",
	},
}

var referenceGroups = []TagRule{
	{ID: "funding", Label: "💰투자", Weight: 30, Keywords: []string{"funding", "series", "investment", "raises"}},
	{ID: "partnership", Label: "🤝제휴", Weight: 20, Keywords: []string{"partnership", "collaboration", "mou"}},
	{ID: "clinical", Label: "🏥임상", Weight: 30, Keywords: []string{"clinical", "trial", "fda", "validation", "hospital"}},
	{ID: "public", Label: "🏛공공", Weight: 15, Keywords: []string{"government", "city", "public"}},
	{ID: "insurance", Label: "🛡보험", Weight: 15, Keywords: []string{"insurance", "underwriting", "payer"}},
	{ID: "video", Label: "📱영상기반", Weight: 8, Keywords: []string{"smartphone", "video", "camera", "markerless"}},
	{ID: "posture", Label: "🧍실루엣", Weight: 10, Keywords: []string{
		"silhouette analysis", "silhouette-based", "silhouette score",
		"clustering", "cluster analysis",
		"posture", "pose estimation", "biomechanics",
		"실루엣", "자세", "포즈추정", "군집분석",
	}},
}

func referenceClassifier() *Classifier {
	return NewClassifier(referenceEntity, referenceGroups)
}

func referenceScorer() *Scorer {
	return NewScorer(append([]TagRule{referenceEntity}, referenceGroups...)...)
}

func tagIDs(tags []Tag) []string {
	ids := make([]string, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}
