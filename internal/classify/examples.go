package classify

// TopicExamples trains the topic task over the four fixed categories.
var TopicExamples = []Example{
	{Text: "The new iPhone features are amazing", Label: "technology"},
	{Text: "The laptop performance is incredible", Label: "technology"},
	{Text: "This recipe is delicious", Label: "food"},
	{Text: "The best way to cook pasta", Label: "food"},
	{Text: "The movie was fantastic", Label: "entertainment"},
	{Text: "This TV show is great", Label: "entertainment"},
	{Text: "The stock market is down today", Label: "finance"},
	{Text: "Bitcoin price is rising", Label: "finance"},
}

// SentimentExamples trains the positive/negative/neutral sentiment task.
var SentimentExamples = []Example{
	{Text: "This is amazing!", Label: "positive"},
	{Text: "I love this product", Label: "positive"},
	{Text: "This is terrible", Label: "negative"},
	{Text: "I hate this", Label: "negative"},
	{Text: "It's okay", Label: "neutral"},
	{Text: "Not sure about this", Label: "neutral"},
}
