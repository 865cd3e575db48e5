package questions

import "github.com/verte-zerg/asake/internal/model"

// Sample returns a starter question set written by `asake config` when no
// question file exists yet.
func Sample() []model.Question {
	return []model.Question{
		{
			ID:           1,
			Variant:      model.MultipleChoice,
			Prompt:       "How long should you rub your hands together with soap?",
			Topic:        "Hygiene",
			Options:      []string{"5 seconds", "At least 20 seconds", "2 minutes"},
			CorrectIndex: 1,
			Explanation:  "Twenty seconds is enough to lift germs from every surface.",
		},
		{
			ID:           2,
			Variant:      model.TrueFalse,
			Prompt:       "You should brush your tongue as part of brushing your teeth.",
			Topic:        "Dental care",
			CorrectTruth: true,
			Explanation:  "Bacteria collect on the tongue too.",
		},
		{
			ID:              3,
			Variant:         model.FillIn,
			Prompt:          "Toothpaste with ____ helps prevent tooth decay.",
			Topic:           "Dental care",
			AcceptedAnswers: []string{"fluoride"},
			Explanation:     "Fluoride strengthens tooth enamel.",
		},
		{
			ID:           4,
			Variant:      model.TrueFalse,
			Prompt:       "Drying your hands is an optional step.",
			Topic:        "Hygiene",
			CorrectTruth: false,
			Explanation:  "Germs spread more easily from wet hands.",
		},
		{
			ID:           5,
			Variant:      model.MultipleChoice,
			Prompt:       "Which brush is recommended for daily use?",
			Topic:        "Dental care",
			Options:      []string{"Hard-bristled", "Soft-bristled", "Any brush"},
			CorrectIndex: 1,
			Explanation:  "Soft bristles clean without damaging gums.",
		},
	}
}
