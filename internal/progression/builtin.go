package progression

import "github.com/myrjola/liftcalc/internal/ptr"

// Builtin returns the schemes shipped with the calculator.
func Builtin() Registry {
	r, err := NewRegistry(standard(), wendler531(), texasMethod(), smolovJr())
	if err != nil {
		panic(err) // the tables below are static.
	}
	return r
}

func standard() Scheme {
	return NewScheme(DefaultSchemeID, "Standard Load Progression",
		"Standard Westside Barbell progression for max effort lifts, based on percentage of target weight.",
		"Percentage of Target Weight (e.g., 1RM or Daily Max)",
		[]Step{
			{Index: 1, SetNumber: 1, Percentage: ptr.Ref(60.0), Notes: "Warm-up set"},
			{Index: 2, SetNumber: 2, Percentage: ptr.Ref(70.0), Notes: "Warm-up set"},
			{Index: 3, SetNumber: 3, Percentage: ptr.Ref(78.0), Notes: "Work-up set"},
			{Index: 4, SetNumber: 4, Percentage: ptr.Ref(85.0), Notes: "Work-up set"},
			{Index: 5, SetNumber: 5, Percentage: ptr.Ref(92.0), Notes: "Near-maximal set"},
			{Index: 6, SetNumber: 6, Percentage: ptr.Ref(97.0), Notes: "Near-maximal set"},
			{Index: 7, SetNumber: 7, Percentage: ptr.Ref(100.0), Notes: "Target weight attempt"},
		})
}

func wendler531() Scheme {
	return NewScheme("wendler531", "5/3/1 Basic Template",
		"Jim Wendler's **5/3/1** progression for main lifts, based on a *training max* (90% of 1RM).",
		"Percentage of Training Max (90% of 1RM)",
		[]Step{
			{Index: 1, SetNumber: 1, Percentage: ptr.Ref(65.0), Notes: "Week 1: 5 reps"},
			{Index: 2, SetNumber: 2, Percentage: ptr.Ref(75.0), Notes: "Week 1: 5 reps"},
			{Index: 3, SetNumber: 3, Percentage: ptr.Ref(85.0), Notes: "Week 1: 5+ reps (AMRAP)"},
			{Index: 4, SetNumber: 4, Percentage: ptr.Ref(70.0), Notes: "Week 2: 3 reps"},
			{Index: 5, SetNumber: 5, Percentage: ptr.Ref(80.0), Notes: "Week 2: 3 reps"},
			{Index: 6, SetNumber: 6, Percentage: ptr.Ref(90.0), Notes: "Week 2: 3+ reps (AMRAP)"},
			{Index: 7, SetNumber: 7, Percentage: ptr.Ref(75.0), Notes: "Week 3: 5 reps"},
			{Index: 8, SetNumber: 8, Percentage: ptr.Ref(85.0), Notes: "Week 3: 3 reps"},
			{Index: 9, SetNumber: 9, Percentage: ptr.Ref(95.0), Notes: "Week 3: 1+ reps (AMRAP)"},
		})
}

func texasMethod() Scheme {
	return NewScheme("texasMethod", "Texas Method",
		"Weekly progression with a volume day (Monday), recovery day (Wednesday), and intensity day (Friday).",
		"Percentage of 5RM",
		[]Step{
			{Index: 1, SetNumber: 1, Percentage: ptr.Ref(90.0), Notes: "Monday: Volume Day - Set 1 of 5x5"},
			{Index: 2, SetNumber: 2, Percentage: ptr.Ref(90.0), Notes: "Monday: Volume Day - Set 2 of 5x5"},
			{Index: 3, SetNumber: 3, Percentage: ptr.Ref(90.0), Notes: "Monday: Volume Day - Set 3 of 5x5"},
			{Index: 4, SetNumber: 4, Percentage: ptr.Ref(90.0), Notes: "Monday: Volume Day - Set 4 of 5x5"},
			{Index: 5, SetNumber: 5, Percentage: ptr.Ref(90.0), Notes: "Monday: Volume Day - Set 5 of 5x5"},
			{Index: 6, SetNumber: 6, Percentage: ptr.Ref(80.0), Notes: "Wednesday: Recovery Day - 2x5"},
			{Index: 7, SetNumber: 7, Percentage: ptr.Ref(80.0), Notes: "Wednesday: Recovery Day - 2x5"},
			{Index: 8, SetNumber: 8, Percentage: ptr.Ref(100.0), Notes: "Friday: Intensity Day - New 5RM"},
		})
}

func smolovJr() Scheme {
	return NewScheme("smolovJr", "Smolov Jr. Bench",
		"High volume, high frequency bench press program over 3 weeks.",
		"Percentage of 1RM",
		[]Step{
			{Index: 1, SetNumber: 1, Percentage: ptr.Ref(70.0), Notes: "Week 1, Day 1: Set 1 of 6x6"},
			{Index: 2, SetNumber: 2, Percentage: ptr.Ref(70.0), Notes: "Week 1, Day 1: Set 2 of 6x6"},
			{Index: 3, SetNumber: 3, Percentage: ptr.Ref(70.0), Notes: "Week 1, Day 1: Set 3 of 6x6"},
			{Index: 4, SetNumber: 4, Percentage: ptr.Ref(70.0), Notes: "Week 1, Day 1: Set 4 of 6x6"},
			{Index: 5, SetNumber: 5, Percentage: ptr.Ref(70.0), Notes: "Week 1, Day 1: Set 5 of 6x6"},
			{Index: 6, SetNumber: 6, Percentage: ptr.Ref(70.0), Notes: "Week 1, Day 1: Set 6 of 6x6"},
			{Index: 7, SetNumber: 7, Percentage: ptr.Ref(75.0), Notes: "Week 1, Day 2: Set 1 of 7x5"},
			{Index: 8, SetNumber: 8, Percentage: ptr.Ref(75.0), Notes: "Week 1, Day 2: Set 2 of 7x5"},
			{Index: 9, SetNumber: 9, Percentage: ptr.Ref(75.0), Notes: "Week 1, Day 2: Set 3 of 7x5"},
			{Index: 10, SetNumber: 10, Percentage: ptr.Ref(75.0), Notes: "Week 1, Day 2: Set 4 of 7x5"},
			{Index: 11, SetNumber: 11, Percentage: ptr.Ref(75.0), Notes: "Week 1, Day 2: Set 5 of 7x5"},
			{Index: 12, SetNumber: 12, Percentage: ptr.Ref(75.0), Notes: "Week 1, Day 2: Set 6 of 7x5"},
			{Index: 13, SetNumber: 13, Percentage: ptr.Ref(75.0), Notes: "Week 1, Day 2: Set 7 of 7x5"},
		})
}
