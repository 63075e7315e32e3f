package services

const passwordResetEmailHTML = `<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #111827; background-color: #f3f4f6; margin: 0; padding: 20px; }
.container { padding: 20px; max-width: 600px; margin: 20px auto; background-color: #ffffff; border: 1px solid #d1d5db; border-radius: 8px; }
.header { font-size: 22px; font-weight: bold; color: #1d4ed8; margin-bottom: 15px; }
.content { padding: 24px; text-align: center; }
.button { display: inline-block; padding: 12px 24px; margin: 20px 0; color: #ffffff; background-color: #1d4ed8; border-radius: 6px; text-decoration: none; font-weight: bold; }
.footer { margin-top: 20px; font-size: 12px; color: #6b7280; text-align: center; }
</style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>%s</h1>
    </div>
    <div class="content">
      <p>We received a request to reset your password. The link below is valid for %d hours and can be used once.</p>
      <a class="button" href="%s">Choose a new password</a>
      <p>If you did not ask for this, you can ignore this email.</p>
    </div>
    <div class="footer">
      © %d. All rights reserved.
    </div>
  </div>
</body>
</html>`
