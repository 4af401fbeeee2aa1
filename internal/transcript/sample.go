package transcript

// Sample returns the built-in transcript used when no input is piped in.
func Sample() *Transcript {
	return &Transcript{Turns: []Turn{
		{Role: "interviewer", Content: "Can you tell me about yourself?"},
		{Role: "candidate", Content: "I am a software engineer with 3 years of experience in Python and backend systems."},
		{Role: "interviewer", Content: "What are your strengths?"},
		{Role: "candidate", Content: "I am good at debugging, problem solving, and collaborating in a team environment."},
		{Role: "interviewer", Content: "What about your weaknesses?"},
		{Role: "candidate", Content: "Sometimes I take too much time perfecting details, but I am learning to balance speed and quality."},
		{Role: "interviewer", Content: "Why should we hire you?"},
		{Role: "candidate", Content: "Because I bring strong technical skills, adaptability, and passion for learning new technologies."},
	}}
}
