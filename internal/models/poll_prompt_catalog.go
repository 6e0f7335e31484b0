package models

func DefaultPollPrompts() map[PollCategory][]string {
	return map[PollCategory][]string{
		PollCategoryNote: {
			"Did your notes help you today?",
			"Was anything you wrote down today worth remembering?",
		},
		PollCategoryTask: {
			"Did you manage to finish the tasks you set for today?",
			"Are you happy with how today's tasks went?",
		},
		PollCategoryHealth: {
			"How do you feel health-wise today?",
			"Did you take good care of your body today?",
		},
		PollCategoryNextDayExpectations: {
			"Are you expecting tomorrow to be a good day?",
		},
		PollCategoryMood: {
			"How is your mood today?",
			"Did today leave you in a good mood?",
		},
	}
}
