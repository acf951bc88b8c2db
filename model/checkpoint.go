package model

// CheckpointLastProcessed names the app_status row holding the instant
// through which reminders have already been evaluated.
const CheckpointLastProcessed = "last_processed_time"
