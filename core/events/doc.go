// Package events defines the typed kiosk session event contract.
//
// Inbound events are requests fed to the session coordinator. Outbound
// events are state signals published by it for renderers and observers.
// Event kinds are grouped by receiver-facing namespaces:
//
//   - intent.* (inbound)
//   - presence.* (inbound)
//   - session.*
//   - guide.*
//   - chat.*
//   - timer.*
//
// intent events
//
//   - AdvanceRequested (intent.advance): move the theme selection by one
//     step in either direction.
//   - ActivateRequested (intent.activate): descend one level, idle to
//     active or active to chat.
//   - BackRequested (intent.back): ascend one level; carries whether it
//     came from a key or from history navigation.
//   - InteractionObserved (intent.interaction): any viewer input that only
//     slides the inactivity window.
//   - ResetRequested (intent.reset): unconditional return to idle.
//   - ChatSubmitted (intent.chat_submit): viewer text for the open chat.
//
// presence events
//
//   - ViewerPresenceChanged (presence.viewer_changed): detector reported a
//     new presence value.
//   - PresenceChannelChanged (presence.channel_changed): detector link went
//     up or down.
//   - ViewerSwiped (presence.swipe): detector recognised a hand swipe.
//
// session events
//
//   - ModeChanged (session.mode_changed): Idle, Active or Chat entered.
//   - ThemeChanged (session.theme_changed): selected theme index moved.
//   - ThemesRegenerated (session.themes_regenerated): a fresh theme set was
//     drawn.
//   - TextStateChanged (session.text_state_changed): question text entered,
//     settled or crossfaded.
//   - HistoryChanged (session.history_changed): navigation stack depth
//     changed; Pushed and Popped describe the edit.
//   - SessionReset (session.reset): the session returned to idle through a
//     reset, carrying the reason.
//
// guide events
//
//   - GuideShown (guide.shown), GuideHidden (guide.hidden).
//
// chat events
//
//   - ChatOpened (chat.opened): chat surface opened for a theme.
//   - ChatTyping (chat.typing): a paced assistant line is pending.
//   - ChatMessageAppended (chat.message_appended): display line appended.
//   - ChatClosing (chat.closing): close animation window started.
//   - ChatClosed (chat.closed): chat surface discarded.
//   - ChatEnded (chat.ended): scripted ending finished.
//
// timer events
//
//   - TimerArmed (timer.armed), TimerStopped (timer.stopped): named timer
//     lifecycle signals.
package events
