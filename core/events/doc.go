// Package events defines the typed event contract of the assistant sessions.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - dialogue.*
//   - speech_input.*
//   - speech_output.*
//   - voice_session.*
//
// Semantics used across the package:
//
//   - Updated: mutable point-in-time snapshot that can change over time.
//   - Final: terminal immutable text for the current utterance.
//   - Started/Stopped/Ended: lifecycle boundaries.
//   - Cancelled/Failed: lifecycle boundaries that were not reached normally.
//
// dialogue events
//
//   - TurnAppended (dialogue.turn_appended): a turn was added to the history.
//   - ComposingChanged (dialogue.composing_changed): the typing indicator
//     turned on or off.
//   - HistoryCleared (dialogue.history_cleared): every turn was removed.
//
// speech_input events
//
//   - ListeningStarted (speech_input.listening_started): capture was started
//     by the user.
//   - ListeningStopped (speech_input.listening_stopped): capture ended and
//     will not restart.
//   - CaptureRestarting (speech_input.capture_restarting): the capability
//     ended capture on its own; a restart is pending.
//   - CaptureRestarted (speech_input.capture_restarted): capture was
//     re-initiated without user action.
//   - TranscriptUpdated (speech_input.transcript_updated): interim transcript
//     snapshot.
//   - TranscriptFinal (speech_input.transcript_final): terminal transcript for
//     the utterance.
//   - CaptureFailed (speech_input.capture_failed): the capability reported an
//     error; capture is stopped.
//
// speech_output events
//
//   - PlaybackStarted (speech_output.playback_started): an utterance became
//     audible.
//   - PlaybackCancelled (speech_output.playback_cancelled): an in-flight
//     utterance was cancelled by a replacement or by stop.
//   - PlaybackEnded (speech_output.playback_ended): an utterance finished
//     naturally.
//   - PlaybackFailed (speech_output.playback_failed): synthesis failed.
//   - VoiceSelected (speech_output.voice_selected): a voice was chosen for a
//     locale.
//
// voice_session events
//
//   - LocaleChanged (voice_session.locale_changed): the session locale was
//     toggled.
//   - ResponseResolved (voice_session.response_resolved): a final transcript
//     was resolved into a response.
package events
