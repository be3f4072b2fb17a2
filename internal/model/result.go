package model

import "time"

// SavedResult models a row of the `saved_results` table: one persisted
// title-generation outcome owned by exactly one user.  The table carries
// an ON DELETE CASCADE foreign key on user_id, so removing a user removes
// their results.
//
// Fields:
//  ID               – primary key (saved_results.result_id).
//  UserID           – owning user (saved_results.user_id).
//  Paragraph        – the source text the title was generated from.
//  Title            – the generated title text.
//  Status           – heuristic quality label (short/optimal/verbose/truncated).
//  Confidence       – heuristic confidence label (low/medium/high).
//  ProcessingTimeMS – wall-clock duration of the generation call.
//  CharacterCount   – length of the source paragraph in bytes.
//  WordCount        – number of whitespace-separated words in the paragraph.
//  CreatedAt        – timestamp of persistence.
type SavedResult struct {
    ID               uint64    // saved_results.result_id
    UserID           uint64    // saved_results.user_id
    Paragraph        string    // saved_results.paragraph
    Title            string    // saved_results.generated_title
    Status           string    // saved_results.status
    Confidence       string    // saved_results.confidence
    ProcessingTimeMS float64   // saved_results.processing_time_ms
    CharacterCount   int       // saved_results.character_count
    WordCount        int       // saved_results.word_count
    CreatedAt        time.Time // saved_results.created_at
}
